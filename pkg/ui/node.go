package ui

import (
	"net/url"
	"strings"

	"jenkdash/internal/jenkins"
)

// RootName is the synthetic identifier of the hierarchy's single entry
// point. It doubles as the coordinator's guard token for the home panel.
const RootName = "root"

// NodeKind classifies a tree entry and determines iconography, styling and
// activation behavior.
type NodeKind int

const (
	// KindUnknown is the fallback for unmapped server type tags. Unknown
	// nodes behave like containers: activating one materializes whatever
	// child descriptors it carried.
	KindUnknown NodeKind = iota
	KindRoot
	KindFolder
	KindMultibranch
	KindJob
)

// String returns the canonical lowercase name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindFolder:
		return "folder"
	case KindMultibranch:
		return "multibranch"
	case KindJob:
		return "job"
	default:
		return "unknown"
	}
}

// LoadState tracks lazy materialization of a node's children.
type LoadState int

const (
	LoadUnloaded LoadState = iota
	LoadLoading
	LoadLoaded
)

// JobNode is one entry in the job hierarchy. Nodes are created by the tree
// controller, which exclusively owns them and their parent/child links;
// Kind is immutable after creation and children are appended, never removed
// (refresh replaces the whole tree).
type JobNode struct {
	ID       int    // stable arena index within one tree instance
	Name     string // full name derived from the server URL, unique among siblings
	Label    string // display text (URL-unescaped server name)
	Path     string // server-relative location, e.g. "job/team/job/svc-a/"
	Kind     NodeKind
	Status   jenkins.Status
	Seed     []jenkins.RawJob // child descriptors captured when this node was created
	State    LoadState
	Expanded bool // meaningful only once State == LoadLoaded
	Depth    int
	Parent   *JobNode
	Children []*JobNode
}

// classKinds is the fixed mapping from the server's type tag to a node kind.
// Tags outside the map resolve to KindUnknown (the zero value) without
// raising.
var classKinds = map[string]NodeKind{
	"org.jenkinsci.plugins.workflow.job.WorkflowJob":                        KindJob,
	"hudson.model.FreeStyleProject":                                         KindJob,
	"com.cloudbees.hudson.plugins.folder.Folder":                            KindFolder,
	"jenkins.branch.OrganizationFolder":                                     KindFolder,
	"org.jenkinsci.plugins.workflow.multibranch.WorkflowMultiBranchProject": KindMultibranch,
}

// KindForClass resolves a server type tag to a node kind.
func KindForClass(class string) NodeKind {
	return classKinds[class]
}

// DeriveName computes a node's full name from its server URL: the
// configured server base is stripped, the remaining "/job/" path separators
// are removed, and the name segments are re-joined with "/". Segments are
// URL-unescaped.
//
// For url ".../job/team/job/svc-a/" under base ".../" the name is
// "team/svc-a"; under base ".../job/team/" it is "svc-a".
func DeriveName(rawURL, base string) string {
	segments := nameSegments(rawURL, base)
	for i, s := range segments {
		if unescaped, err := url.PathUnescape(s); err == nil {
			segments[i] = unescaped
		}
	}
	return strings.Join(segments, "/")
}

// DerivePath computes the server-relative path used to address the node:
// the raw URL with the base stripped, no leading slash, trailing slash
// preserved.
func DerivePath(rawURL, base string) string {
	rest := strings.TrimPrefix(rawURL, base)
	if rest == rawURL {
		// URL from a different base; fall back to its path component.
		if u, err := url.Parse(rawURL); err == nil {
			rest = u.Path
		}
	}
	rest = strings.TrimPrefix(rest, "/")
	if rest != "" && !strings.HasSuffix(rest, "/") {
		rest += "/"
	}
	return rest
}

// nameSegments strips the base from the URL and splits the remainder on its
// "/job/" separators.
func nameSegments(rawURL, base string) []string {
	rest := strings.TrimPrefix(rawURL, base)
	if rest == rawURL {
		if u, err := url.Parse(rawURL); err == nil {
			rest = u.Path
		}
	}
	rest = "/" + strings.Trim(rest, "/")

	var segments []string
	for _, part := range strings.Split(rest, "/job/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// displayLabel returns the URL-unescaped display text for a raw descriptor
// name.
func displayLabel(name string) string {
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
