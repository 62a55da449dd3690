package radio

import (
	"github.com/mizikori/airwave/internal/app/playback"
	"github.com/mizikori/airwave/internal/domain/track"
)

// ControllerPlayer adapts the concrete playback controller to the Player
// interface.
type ControllerPlayer struct {
	Controller *playback.Controller
}

func (p ControllerPlayer) Start(t track.Track, generation uint64) (Handle, error) {
	h, err := p.Controller.Start(t, generation)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (p ControllerPlayer) Stop(h Handle) {
	if ph, ok := h.(*playback.Handle); ok {
		p.Controller.Stop(ph)
	}
}
