package game

import (
	"errors"
	"fmt"

	"werewolf/cards"

	json "github.com/goccy/go-json"
)

const (
	RequestReady               = "ready"
	RequestUpdateCardCount     = "updateCardCount"
	RequestUpdateAlphaWolfCard = "updateAlphaWolfCard"
	RequestUpdateLoneWolf      = "updateLoneWolf"
	RequestStart               = "start"
	RequestDestroy             = "destroy"
	RequestNightRoleAction     = "nightRoleAction"
	RequestCastVote            = "castVote"
)

var (
	errUnknownRequest = errors.New("unknown request type")
	errMissingField   = errors.New("missing field")
)

// Request is a decoded inbound packet.
type Request interface {
	Type() string
}

type ReadyRequest struct{}

type UpdateCardCountRequest struct {
	Card  cards.Card `json:"card"`
	Count int        `json:"count"`
}

type UpdateAlphaWolfCardRequest struct {
	Card cards.Card `json:"card"`
}

type UpdateLoneWolfRequest struct {
	Enabled bool `json:"enabled"`
}

type StartRequest struct{}

type DestroyRequest struct{}

type NightRoleActionRequest struct {
	Action Action
}

type CastVoteRequest struct {
	Seat int
}

func (ReadyRequest) Type() string               { return RequestReady }
func (UpdateCardCountRequest) Type() string     { return RequestUpdateCardCount }
func (UpdateAlphaWolfCardRequest) Type() string { return RequestUpdateAlphaWolfCard }
func (UpdateLoneWolfRequest) Type() string      { return RequestUpdateLoneWolf }
func (StartRequest) Type() string               { return RequestStart }
func (DestroyRequest) Type() string             { return RequestDestroy }
func (NightRoleActionRequest) Type() string     { return RequestNightRoleAction }
func (CastVoteRequest) Type() string            { return RequestCastVote }

// Action is the typed argument set of a night role action.
type Action interface {
	Role() cards.Card
}

type LoneWolfAction struct{ Index int }
type AlphaWolfAction struct{ Target int }
type MysticWolfAction struct{ Target int }
type SeerAction struct{ Index int }
type ApprenticeSeerAction struct{ Index int }
type RobberAction struct{ Target int }
type WitchAction struct{ Index int }
type TroublemakerAction struct{ Target1, Target2 int }
type VillageIdiotAction struct{ ShiftLeft bool }
type DrunkAction struct{ Index int }

// The lone wolf acts during the werewolf window.
func (LoneWolfAction) Role() cards.Card       { return cards.Werewolf }
func (AlphaWolfAction) Role() cards.Card      { return cards.AlphaWolf }
func (MysticWolfAction) Role() cards.Card     { return cards.MysticWolf }
func (SeerAction) Role() cards.Card           { return cards.Seer }
func (ApprenticeSeerAction) Role() cards.Card { return cards.ApprenticeSeer }
func (RobberAction) Role() cards.Card         { return cards.Robber }
func (WitchAction) Role() cards.Card          { return cards.Witch }
func (TroublemakerAction) Role() cards.Card   { return cards.Troublemaker }
func (VillageIdiotAction) Role() cards.Card   { return cards.VillageIdiot }
func (DrunkAction) Role() cards.Card          { return cards.Drunk }

type rawRequest struct {
	Type  string          `json:"type"`
	Card  cards.Card      `json:"card"`
	Count *int            `json:"count"`
	On    *bool           `json:"enabled"`
	Role  cards.Card      `json:"role"`
	Args  json.RawMessage `json:"args"`
	Seat  *int            `json:"seat"`
}

type rawArgs struct {
	Target    *int  `json:"target"`
	Target1   *int  `json:"target1"`
	Target2   *int  `json:"target2"`
	Index     *int  `json:"index"`
	ShiftLeft *bool `json:"shiftLeft"`
}

// DecodeRequest parses an inbound packet. Required fields that are absent
// are an error; range checks are left to the room.
func DecodeRequest(data []byte) (Request, error) {
	var raw rawRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}

	switch raw.Type {
	case RequestReady:
		return ReadyRequest{}, nil
	case RequestUpdateCardCount:
		if raw.Card == "" || raw.Count == nil {
			return nil, fmt.Errorf("%s: %w", raw.Type, errMissingField)
		}
		return UpdateCardCountRequest{Card: raw.Card, Count: *raw.Count}, nil
	case RequestUpdateAlphaWolfCard:
		if raw.Card == "" {
			return nil, fmt.Errorf("%s: %w", raw.Type, errMissingField)
		}
		return UpdateAlphaWolfCardRequest{Card: raw.Card}, nil
	case RequestUpdateLoneWolf:
		if raw.On == nil {
			return nil, fmt.Errorf("%s: %w", raw.Type, errMissingField)
		}
		return UpdateLoneWolfRequest{Enabled: *raw.On}, nil
	case RequestStart:
		return StartRequest{}, nil
	case RequestDestroy:
		return DestroyRequest{}, nil
	case RequestCastVote:
		if raw.Seat == nil {
			return nil, fmt.Errorf("%s: %w", raw.Type, errMissingField)
		}
		return CastVoteRequest{Seat: *raw.Seat}, nil
	case RequestNightRoleAction:
		action, err := decodeAction(raw.Role, raw.Args)
		if err != nil {
			return nil, err
		}
		return NightRoleActionRequest{Action: action}, nil
	}
	return nil, fmt.Errorf("%q: %w", raw.Type, errUnknownRequest)
}

func decodeAction(role cards.Card, data json.RawMessage) (Action, error) {
	var args rawArgs
	if len(data) > 0 {
		if err := json.Unmarshal(data, &args); err != nil {
			return nil, fmt.Errorf("decode %s args: %w", role, err)
		}
	}

	need := func(fields ...*int) error {
		for _, f := range fields {
			if f == nil {
				return fmt.Errorf("%s action: %w", role, errMissingField)
			}
		}
		return nil
	}

	switch role {
	case cards.Werewolf:
		if err := need(args.Index); err != nil {
			return nil, err
		}
		return LoneWolfAction{Index: *args.Index}, nil
	case cards.AlphaWolf:
		if err := need(args.Target); err != nil {
			return nil, err
		}
		return AlphaWolfAction{Target: *args.Target}, nil
	case cards.MysticWolf:
		if err := need(args.Target); err != nil {
			return nil, err
		}
		return MysticWolfAction{Target: *args.Target}, nil
	case cards.Seer:
		if err := need(args.Index); err != nil {
			return nil, err
		}
		return SeerAction{Index: *args.Index}, nil
	case cards.ApprenticeSeer:
		if err := need(args.Index); err != nil {
			return nil, err
		}
		return ApprenticeSeerAction{Index: *args.Index}, nil
	case cards.Robber:
		if err := need(args.Target); err != nil {
			return nil, err
		}
		return RobberAction{Target: *args.Target}, nil
	case cards.Witch:
		if err := need(args.Index); err != nil {
			return nil, err
		}
		return WitchAction{Index: *args.Index}, nil
	case cards.Troublemaker:
		if err := need(args.Target1, args.Target2); err != nil {
			return nil, err
		}
		return TroublemakerAction{Target1: *args.Target1, Target2: *args.Target2}, nil
	case cards.VillageIdiot:
		if args.ShiftLeft == nil {
			return nil, fmt.Errorf("%s action: %w", role, errMissingField)
		}
		return VillageIdiotAction{ShiftLeft: *args.ShiftLeft}, nil
	case cards.Drunk:
		if err := need(args.Index); err != nil {
			return nil, err
		}
		return DrunkAction{Index: *args.Index}, nil
	}
	return nil, fmt.Errorf("%s action: %w", role, errUnknownRequest)
}
