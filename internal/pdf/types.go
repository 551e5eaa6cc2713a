package pdf

// ManualInfo describes an opened manual
type ManualInfo struct {
	Path  string `json:"path"`
	Pages int    `json:"pages"`
	Size  int64  `json:"size"`
}
