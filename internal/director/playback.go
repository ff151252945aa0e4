package director

// Player is the single owner of a director during playback. The host calls
// Tick once per display refresh; Start, Pause and Reset control it.
type Player struct {
	director *AnimationDirector
	playing  bool
}

// NewPlayer creates a paused player positioned before the first frame.
func NewPlayer(d *AnimationDirector) *Player {
	return &Player{director: d}
}

// Start resumes playback. A finished cycle restarts from the beginning.
func (p *Player) Start() {
	if p.director.AnimationCycleFinished() {
		p.director.Reset()
	}
	p.playing = true
}

// Pause stops advancing without losing the current frame.
func (p *Player) Pause() {
	p.playing = false
}

// Reset stops playback and rewinds the director.
func (p *Player) Reset() {
	p.playing = false
	p.director.Reset()
}

// Playing reports whether Tick advances frames.
func (p *Player) Playing() bool {
	return p.playing
}

// Tick advances the director by exactly one frame while playing and reports
// whether it did. Playback stops by itself once the cycle is finished.
func (p *Player) Tick() bool {
	if !p.playing {
		return false
	}

	p.director.UpdateFrame()
	if p.director.AnimationCycleFinished() {
		p.playing = false
	}
	return true
}

// Director returns the owned director.
func (p *Player) Director() *AnimationDirector {
	return p.director
}
