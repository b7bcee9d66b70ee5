package server

import (
	"lsp-navigator/src/internal/types"
)

// ActiveServer yields the request channel of the language server currently
// serving a language. An absent channel is a normal outcome: nothing is
// running, it has not finished initializing, or it died. Callers treat it as
// "no results".
type ActiveServer interface {
	CurrentChannel(language string) (types.Channel, bool)
}

// StaticServer serves one fixed channel for every language. A nil channel
// behaves as "no server running".
type StaticServer struct {
	Channel types.Channel
}

// NewStaticServer wraps ch as an ActiveServer
func NewStaticServer(ch types.Channel) *StaticServer {
	return &StaticServer{Channel: ch}
}

func (s *StaticServer) CurrentChannel(language string) (types.Channel, bool) {
	if s == nil || s.Channel == nil {
		return nil, false
	}
	return s.Channel, true
}
