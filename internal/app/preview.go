package app

// Change describes what a front end must do with its audio output after [Preview.Play].
type Change int

const (
	// ChangeNone means nothing happened.
	ChangeNone Change = iota
	// ChangeStarted means a new URL became active; any previous playback must stop.
	ChangeStarted
	// ChangeStopped means the active URL was toggled off.
	ChangeStopped
)

func (c Change) String() string {
	switch c {
	case ChangeStarted:
		return "started"
	case ChangeStopped:
		return "stopped"
	default:
		return "none"
	}
}

// Preview tracks the single active preview URL.
type Preview struct {
	active string
}

// Active returns the URL being played, or "" when idle.
func (p *Preview) Active() string { return p.active }

// Playing reports whether url is the active preview.
func (p *Preview) Playing(url string) bool {
	return url != "" && p.active == url
}

// Play toggles url: the active URL stops, anything else replaces it.
func (p *Preview) Play(url string) Change {
	switch {
	case url == "":
		return ChangeNone
	case url == p.active:
		p.active = ""
		return ChangeStopped
	default:
		p.active = url
		return ChangeStarted
	}
}

// Ended marks the natural end of playback for url. Reports whether the active preview changed.
func (p *Preview) Ended(url string) bool {
	if url == "" || url != p.active {
		return false
	}
	p.active = ""
	return true
}

// Stop clears the active preview.
func (p *Preview) Stop() {
	p.active = ""
}
