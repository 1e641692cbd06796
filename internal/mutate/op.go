package mutate

// Op tracks a remote call issued after an optimistic local write.
type Op struct {
	done chan struct{}
	err  error
}

func newOp() *Op {
	return &Op{done: make(chan struct{})}
}

func (o *Op) finish(err error) {
	o.err = err
	close(o.done)
}

// Done is closed once the remote call has returned and its result has been
// applied.
func (o *Op) Done() <-chan struct{} { return o.done }

// Wait blocks until the remote call returns and reports its error.
func (o *Op) Wait() error {
	<-o.done
	return o.err
}

// Err returns the remote error. It is nil until Done is closed.
func (o *Op) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}
