// worker/pool.go
package worker

import "sync"

// Result pairs a job's output with the ID it was submitted under.
type Result[T any] struct {
	JobID  string
	Output T
}

type job[T any] struct {
	id  string
	run func() T
}

// Pool runs submitted jobs on a fixed number of worker goroutines.
// Close the pool after the last Submit; Results is closed once every
// submitted job has been delivered.
type Pool[T any] struct {
	jobs    chan job[T]
	results chan Result[T]
	wg      sync.WaitGroup
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		jobs:    make(chan job[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.work()
	}

	return p
}

func (p *Pool[T]) work() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.results <- Result[T]{JobID: j.id, Output: j.run()}
	}
}

func (p *Pool[T]) Submit(id string, run func() T) {
	p.jobs <- job[T]{id: id, run: run}
}

// Close stops accepting jobs and closes Results once in-flight jobs finish.
func (p *Pool[T]) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}
