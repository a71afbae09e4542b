/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package quiz

import "errors"

var (
	// ErrMalformedDocument is returned when a quiz document cannot be turned into a board.
	ErrMalformedDocument = errors.New("malformed quiz document")
	// ErrUnknownTeam is returned for any team identifier outside the fixed set.
	ErrUnknownTeam = errors.New("unknown team")
	// ErrInvalidCoord is returned when a tile coordinate does not index into the board.
	ErrInvalidCoord = errors.New("tile coordinate out of range")
	// ErrNoSelection is returned by actions that need an open question.
	ErrNoSelection = errors.New("no question is open")
	// ErrTileAssigned is returned when re-awarding is forbidden and the tile already has a team.
	ErrTileAssigned = errors.New("tile already awarded")
	// ErrNoAudio is returned when audio playback is requested for a question without audio.
	ErrNoAudio = errors.New("question has no audio")
	// ErrUnknownHotkey is returned for combinations with no binding.
	ErrUnknownHotkey = errors.New("no sound bound to hotkey")
	// ErrBoardUnavailable is returned when no board has been loaded successfully.
	ErrBoardUnavailable = errors.New("quiz board unavailable")
)
