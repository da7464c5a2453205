package domain

// MirrorResult summarizes a reconciliation of current state towards a target.
type MirrorResult struct {
	Initial int `json:"initial"` // Rows (or transactions) before mirroring
	Target  int `json:"target"`  // Rows (or transactions) in the target
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
	Updated int `json:"updated"`
}
