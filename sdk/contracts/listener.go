package contracts

// Listener receives notifications from the keyboard. All methods are invoked on the
// interactive goroutine, in the order the events were produced.
type Listener interface {
	LoadStart()
	LoadProgress(progress int)
	LoadFinish()
	LoadError(err error)

	AutoPlayStart()
	AutoPlayEnd()

	InitFinish()
	KeyClicked(keyType KeyType, voice string, group, position int)
	KeyReleased(keyType KeyType, group, position int)
	Scrolled(origin int)
}

// ListenerFuncs adapts optional functions to Listener. Nil fields are ignored.
type ListenerFuncs struct {
	OnLoadStart     func()
	OnLoadProgress  func(progress int)
	OnLoadFinish    func()
	OnLoadError     func(err error)
	OnAutoPlayStart func()
	OnAutoPlayEnd   func()
	OnInitFinish    func()
	OnKeyClicked    func(keyType KeyType, voice string, group, position int)
	OnKeyReleased   func(keyType KeyType, group, position int)
	OnScrolled      func(origin int)
}

func (l ListenerFuncs) LoadStart() {
	if l.OnLoadStart != nil {
		l.OnLoadStart()
	}
}

func (l ListenerFuncs) LoadProgress(progress int) {
	if l.OnLoadProgress != nil {
		l.OnLoadProgress(progress)
	}
}

func (l ListenerFuncs) LoadFinish() {
	if l.OnLoadFinish != nil {
		l.OnLoadFinish()
	}
}

func (l ListenerFuncs) LoadError(err error) {
	if l.OnLoadError != nil {
		l.OnLoadError(err)
	}
}

func (l ListenerFuncs) AutoPlayStart() {
	if l.OnAutoPlayStart != nil {
		l.OnAutoPlayStart()
	}
}

func (l ListenerFuncs) AutoPlayEnd() {
	if l.OnAutoPlayEnd != nil {
		l.OnAutoPlayEnd()
	}
}

func (l ListenerFuncs) InitFinish() {
	if l.OnInitFinish != nil {
		l.OnInitFinish()
	}
}

func (l ListenerFuncs) KeyClicked(keyType KeyType, voice string, group, position int) {
	if l.OnKeyClicked != nil {
		l.OnKeyClicked(keyType, voice, group, position)
	}
}

func (l ListenerFuncs) KeyReleased(keyType KeyType, group, position int) {
	if l.OnKeyReleased != nil {
		l.OnKeyReleased(keyType, group, position)
	}
}

func (l ListenerFuncs) Scrolled(origin int) {
	if l.OnScrolled != nil {
		l.OnScrolled(origin)
	}
}
