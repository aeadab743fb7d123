package errors

import "fmt"

var (
	ErrRoomNotFound         = fmt.Errorf("room not found")
	ErrNotAuthenticated     = fmt.Errorf("not authenticated")
	ErrNotParticipant       = fmt.Errorf("not a room participant")
	ErrAssistantUnavailable = fmt.Errorf("assistant service unavailable")
	ErrChannelClosed        = fmt.Errorf("push channel closed")
	ErrNoActiveRoom         = fmt.Errorf("no active room bound")
	ErrActivationSuperseded = fmt.Errorf("activation superseded by a newer room switch")
	ErrWorkerPanic          = fmt.Errorf("worker panic")
)
