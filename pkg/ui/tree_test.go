package ui

import (
	"fmt"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"jenkdash/internal/jenkins"
)

const testBase = "https://ci.example.com/"

func newTestTree() TreeModel {
	t := NewTree(DefaultTheme(lipgloss.DefaultRenderer()), testBase)
	t.SetSize(40, 20)
	return t
}

func sampleHierarchy() []jenkins.RawJob {
	return []jenkins.RawJob{
		{
			Class: "com.cloudbees.hudson.plugins.folder.Folder",
			Name:  "team",
			URL:   testBase + "job/team/",
			Jobs: []jenkins.RawJob{
				{
					Class: "org.jenkinsci.plugins.workflow.job.WorkflowJob",
					Name:  "svc-a",
					URL:   testBase + "job/team/job/svc-a/",
					Color: "blue",
				},
				{
					Class: "org.jenkinsci.plugins.workflow.job.WorkflowJob",
					Name:  "svc-b",
					URL:   testBase + "job/team/job/svc-b/",
					Color: "red",
				},
			},
		},
		{
			Class: "org.jenkinsci.plugins.workflow.job.WorkflowJob",
			Name:  "deploy",
			URL:   testBase + "job/deploy/",
			Color: "blue_anime",
		},
	}
}

func TestTree_ApplyHierarchy(t *testing.T) {
	tree := newTestTree()

	if !tree.BeginRootLoad() {
		t.Fatal("expected root load to start from unloaded")
	}
	tree.ApplyHierarchy(sampleHierarchy())

	root := tree.Root()
	if root.State != LoadLoaded {
		t.Fatalf("expected root loaded, got state %d", root.State)
	}
	if !root.Expanded {
		t.Error("expected root expanded after load")
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 top-level children, got %d", len(root.Children))
	}

	folder := root.Children[0]
	if folder.Kind != KindFolder {
		t.Errorf("expected folder kind, got %v", folder.Kind)
	}
	if folder.Name != "team" {
		t.Errorf("expected name team, got %q", folder.Name)
	}
	if len(folder.Seed) != 2 {
		t.Errorf("expected 2 captured child descriptors, got %d", len(folder.Seed))
	}
	if len(folder.Children) != 0 {
		t.Errorf("folder children materialized eagerly, expected lazy")
	}

	job := root.Children[1]
	if job.Kind != KindJob {
		t.Errorf("expected job kind, got %v", job.Kind)
	}
	if job.Status != jenkins.StatusBuilding {
		t.Errorf("expected building status for anime color, got %v", job.Status)
	}

	// Visible rows: root plus its two children; the folder is collapsed.
	if tree.NodeCount() != 3 {
		t.Errorf("expected 3 visible nodes, got %d", tree.NodeCount())
	}
}

func TestTree_LoadOnce(t *testing.T) {
	tree := newTestTree()
	tree.BeginRootLoad()
	tree.ApplyHierarchy(sampleHierarchy())

	// A late duplicate result must not duplicate children.
	tree.ApplyHierarchy(sampleHierarchy())

	if len(tree.Root().Children) != 2 {
		t.Errorf("duplicate hierarchy result duplicated children: %d", len(tree.Root().Children))
	}

	// A second load attempt on a loaded root is rejected.
	if tree.BeginRootLoad() {
		t.Error("expected BeginRootLoad to fail on a loaded root")
	}
}

func TestTree_LoadFailedRollsBack(t *testing.T) {
	tree := newTestTree()
	tree.BeginRootLoad()
	tree.LoadFailed()

	if tree.Root().State != LoadUnloaded {
		t.Fatalf("expected root back to unloaded, got %d", tree.Root().State)
	}
	if !tree.BeginRootLoad() {
		t.Error("expected retry to be possible after rollback")
	}
}

func TestTree_ActivateFolderMaterializesFromSeed(t *testing.T) {
	tree := newTestTree()
	tree.BeginRootLoad()
	tree.ApplyHierarchy(sampleHierarchy())

	tree.CursorDown() // folder is the first child
	folder := tree.CurrentNode()
	if folder.Kind != KindFolder {
		t.Fatalf("cursor not on the folder, got %v", folder.Kind)
	}

	if cmd := tree.Activate(); cmd != nil {
		t.Error("container activation should not produce a command")
	}

	if folder.State != LoadLoaded || !folder.Expanded {
		t.Fatalf("expected folder loaded and expanded, state=%d expanded=%v", folder.State, folder.Expanded)
	}
	if len(folder.Children) != 2 {
		t.Fatalf("expected 2 materialized children, got %d", len(folder.Children))
	}
	if got := folder.Children[0].Name; got != "team/svc-a" {
		t.Errorf("expected child name team/svc-a, got %q", got)
	}
	if tree.NodeCount() != 5 {
		t.Errorf("expected 5 visible nodes after expansion, got %d", tree.NodeCount())
	}

	// Second activation collapses without touching children.
	tree.Activate()
	if folder.State != LoadLoaded {
		t.Error("collapse must not unload the folder")
	}
	if folder.Expanded {
		t.Error("expected folder collapsed")
	}
	if len(folder.Children) != 2 {
		t.Errorf("collapse changed children: %d", len(folder.Children))
	}
	if tree.NodeCount() != 3 {
		t.Errorf("expected 3 visible nodes after collapse, got %d", tree.NodeCount())
	}
}

func TestTree_ActivateJobEmitsSelection(t *testing.T) {
	tree := newTestTree()
	tree.BeginRootLoad()
	tree.ApplyHierarchy(sampleHierarchy())

	tree.CursorBottom() // deploy job
	cmd := tree.Activate()
	if cmd == nil {
		t.Fatal("expected a command from job activation")
	}

	msg, ok := cmd().(JobSelectedMsg)
	if !ok {
		t.Fatalf("expected JobSelectedMsg, got %T", cmd())
	}
	if msg.Name != "deploy" {
		t.Errorf("expected name deploy, got %q", msg.Name)
	}
	if msg.Path != "job/deploy/" {
		t.Errorf("expected path job/deploy/, got %q", msg.Path)
	}
}

func TestTree_ActivateRootEmitsRootSelection(t *testing.T) {
	tree := newTestTree()
	tree.BeginRootLoad()
	tree.ApplyHierarchy(sampleHierarchy())

	tree.CursorTop()
	cmd := tree.Activate()
	if cmd == nil {
		t.Fatal("expected a command from root activation")
	}
	if _, ok := cmd().(RootSelectedMsg); !ok {
		t.Fatalf("expected RootSelectedMsg, got %T", cmd())
	}
}

func TestTree_RenderLabelCaches(t *testing.T) {
	tree := newTestTree()
	tree.BeginRootLoad()
	tree.ApplyHierarchy(sampleHierarchy())

	node := tree.Root().Children[1]

	before := tree.CacheLen()
	first := tree.RenderLabel(node, false, false, true)
	if tree.CacheLen() != before+1 {
		t.Fatalf("expected one new cache entry, got %d -> %d", before, tree.CacheLen())
	}

	second := tree.RenderLabel(node, false, false, true)
	if tree.CacheLen() != before+1 {
		t.Error("repeat render added a cache entry")
	}
	if first != second {
		t.Error("cached render differs from original")
	}

	// A different flag tuple is a distinct entry.
	tree.RenderLabel(node, true, false, true)
	if tree.CacheLen() != before+2 {
		t.Error("cursor variant should occupy its own entry")
	}
}

func TestTree_ResetClearsCache(t *testing.T) {
	tree := newTestTree()
	tree.BeginRootLoad()
	tree.ApplyHierarchy(sampleHierarchy())
	tree.RenderLabel(tree.Root(), false, false, true)

	if tree.CacheLen() == 0 {
		t.Fatal("expected cache entries before reset")
	}

	tree.Reset()
	if tree.CacheLen() != 0 {
		t.Errorf("expected empty cache after reset, got %d", tree.CacheLen())
	}
	if tree.Root().State != LoadUnloaded {
		t.Errorf("expected unloaded root after reset")
	}
	if tree.NodeCount() != 1 {
		t.Errorf("expected only the root visible after reset, got %d", tree.NodeCount())
	}
}

func TestTree_WidthChangeClearsCache(t *testing.T) {
	tree := newTestTree()
	tree.BeginRootLoad()
	tree.ApplyHierarchy(sampleHierarchy())
	tree.RenderLabel(tree.Root(), false, false, true)

	tree.SetSize(60, 20)
	if tree.CacheLen() != 0 {
		t.Errorf("expected cache cleared on width change, got %d entries", tree.CacheLen())
	}

	tree.RenderLabel(tree.Root(), false, false, true)
	tree.SetSize(60, 30)
	if tree.CacheLen() == 0 {
		t.Error("height-only change should keep the cache")
	}
}

func TestTree_NodeAtLineRespectsViewport(t *testing.T) {
	tree := newTestTree()
	tree.BeginRootLoad()

	var jobs []jenkins.RawJob
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("job-%02d", i)
		jobs = append(jobs, jenkins.RawJob{
			Class: "hudson.model.FreeStyleProject",
			Name:  name,
			URL:   testBase + "job/" + name + "/",
			Color: "blue",
		})
	}
	tree.ApplyHierarchy(jobs)
	tree.SetSize(40, 10)

	if node := tree.NodeAtLine(0); node != tree.Root() {
		t.Error("expected line 0 to map to the root before scrolling")
	}
	if node := tree.NodeAtLine(-1); node != nil {
		t.Error("negative line should map to nil")
	}
	// One row is reserved for the position indicator.
	if node := tree.NodeAtLine(9); node != nil {
		t.Error("indicator row should map to nil")
	}

	tree.CursorBottom()
	if node := tree.NodeAtLine(0); node == tree.Root() {
		t.Error("expected viewport to have scrolled past the root")
	}
}
