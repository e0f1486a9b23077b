package async

// ErrAble runs fn on its own goroutine and exposes its error on a
// channel, so callers can select against a timeout.
func ErrAble(fn func() error) <-chan error {
	ch := make(chan error)
	go func() {
		ch <- fn()
		close(ch)
	}()
	return ch
}
