package jenkins

// RawJob is one job descriptor as returned by the server's JSON API.
// Container types carry their children inline in Jobs, so a single recursive
// hierarchy request describes the whole tree.
type RawJob struct {
	Class string   `json:"_class"`
	Name  string   `json:"name"`
	URL   string   `json:"url"`
	Color string   `json:"color,omitempty"`
	Jobs  []RawJob `json:"jobs,omitempty"`
}

// HealthReport is a single health entry for a job (test results, build
// stability and so on).
type HealthReport struct {
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// Build is one entry of a job's build history.
type Build struct {
	Number    int    `json:"number"`
	URL       string `json:"url"`
	Result    string `json:"result"`    // SUCCESS, FAILURE, UNSTABLE, ABORTED, "" while building
	Timestamp int64  `json:"timestamp"` // start time, milliseconds since epoch
	Duration  int64  `json:"duration"`  // milliseconds, 0 while building
	Building  bool   `json:"building"`
}

// JobDetail is the detail payload for a single job.
type JobDetail struct {
	DisplayName  string         `json:"displayName"`
	Description  string         `json:"description"`
	HealthReport []HealthReport `json:"healthReport"`
	Builds       []Build        `json:"builds"`
}

// QueueItem is one entry of the server's build queue.
type QueueItem struct {
	ID           int64     `json:"id"`
	Why          string    `json:"why"`
	InQueueSince int64     `json:"inQueueSince"` // milliseconds since epoch
	Stuck        bool      `json:"stuck"`
	Task         QueueTask `json:"task"`
}

// QueueTask identifies the job a queue item belongs to.
type QueueTask struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Executor describes one executor slot on a build node. Build is the full
// display name of the running build, empty when the executor is idle.
type Executor struct {
	Node     string
	Idle     bool
	Progress int
	Build    string
}

// computerResponse mirrors the computer API payload before flattening into
// Executor values.
type computerResponse struct {
	Computer []struct {
		DisplayName string `json:"displayName"`
		Offline     bool   `json:"offline"`
		Executors   []struct {
			Idle              bool `json:"idle"`
			Progress          int  `json:"progress"`
			CurrentExecutable *struct {
				FullDisplayName string `json:"fullDisplayName"`
				URL             string `json:"url"`
			} `json:"currentExecutable"`
		} `json:"executors"`
	} `json:"computer"`
}
