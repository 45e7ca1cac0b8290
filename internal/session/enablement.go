package session

// Enablement mirrors the UI's action gating: which classes of operation the
// current session state allows. Handlers use it to reject requests the UI
// would have disabled.
type Enablement struct {
	CanMutate    bool `json:"can_mutate"`
	CanActOnNode bool `json:"can_act_on_node"`
	CanChat      bool `json:"can_chat"`
	CanExport    bool `json:"can_export"`
}

// Enablement reports what the session currently allows. Exports additionally
// require the obsidian rendering style, matching the map the export formats
// were designed around.
func (s *Session) Enablement() Enablement {
	busy, _ := s.Busy()
	loaded := s.store.NodeCount() > 0
	return Enablement{
		CanMutate:    loaded && !busy,
		CanActOnNode: loaded && !busy && s.layout.SelectedNode() != "",
		CanChat:      loaded,
		CanExport:    loaded && s.cfg.ObsidianStyle && !busy,
	}
}
