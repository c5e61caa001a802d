// Package workload drives an arena-backed list with a random, reproducible
// mix of operations and reports what the arena went through.
package workload

import (
	"context"
	"iter"
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/log"

	arena "github.com/pavanmanishd/stackarena"
	"github.com/pavanmanishd/stackarena/list"
)

// Op is one list operation of the random phase.
type Op int

const (
	OpPushBack Op = iota
	OpPushFront
	OpPopBack
	OpPopFront
	OpInsert
	OpErase
	numOps
)

var opNames = [numOps]string{"push_back", "push_front", "pop_back", "pop_front", "insert", "erase"}

func (op Op) String() string {
	if op < 0 || op >= numOps {
		return "unknown"
	}
	return opNames[op]
}

// Record is the element type of the workload list.
type Record struct {
	Seq   uint64
	Value int64
	Tag   [16]byte
}

// NodesFor returns how many records a Storage of capacity bytes holds.
func NodesFor(capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return capacity / list.NodeSize[Record]()
}

// checkEvery is how many operations run between context checks.
const checkEvery = 1024

// Run executes cfg against a fresh Storage of cfg.Storage.Capacity bytes.
func Run(ctx context.Context, cfg Config, logger log.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	stor := arena.NewStorage(cfg.Storage.Capacity)
	defer stor.Release()
	return RunOn(ctx, stor, cfg, logger)
}

// RunOn executes cfg against stor, which the caller owns. The capacity in
// cfg is ignored.
//
// Running out of arena space during the random phase ends the run early
// and is recorded in the report; it is not an error. Failing to place the
// initial records is.
func RunOn(ctx context.Context, stor *arena.Storage, cfg Config, logger log.Logger) (Report, error) {
	if logger == nil {
		logger = log.Root()
	}
	if err := cfg.validateRun(); err != nil {
		return Report{}, err
	}
	r := &runner{
		cfg:  cfg,
		stor: stor,
		rng:  rand.New(rand.NewPCG(cfg.List.Seed, cfg.List.Seed^0x9e3779b97f4a7c15)),
		log:  logger.New("capacity", stor.Cap(), "seed", cfg.List.Seed),
	}
	return r.run(ctx)
}

type runner struct {
	cfg  Config
	stor *arena.Storage
	rng  *rand.Rand
	log  log.Logger

	l   *list.List[Record]
	seq uint64
	sum int64 // sum of Value over the list
	rep Report
}

func (r *runner) run(ctx context.Context) (Report, error) {
	start := time.Now()
	r.log.Info("Starting workload", "elements", r.cfg.List.Elements, "operations", r.cfg.Operations, "fits", NodesFor(r.stor.Cap()))

	l, err := list.From[Record](arena.NewStackAllocator[Record](r.stor), r.records(r.cfg.List.Elements))
	if err != nil {
		return Report{}, errors.Wrapf(err, "initial fill of %d records", r.cfg.List.Elements)
	}
	r.l = l
	r.rep.Requested = r.cfg.Operations
	r.log.Debug("Initial fill done", "len", l.Len(), "used", r.stor.Used())

	if err := r.random(ctx); err != nil {
		return Report{}, err
	}
	if err := r.verify(); err != nil {
		return Report{}, err
	}

	r.rep.Len = r.l.Len()
	r.rep.Elapsed = time.Since(start)
	r.rep.Metrics = r.stor.Metrics()
	r.log.Info("Workload finished", "applied", r.rep.Applied, "len", r.rep.Len,
		"exhausted", r.rep.Exhausted, "used", r.rep.Metrics.Used, "abandoned", r.rep.Metrics.Abandoned,
		"elapsed", r.rep.Elapsed)
	return r.rep, nil
}

// random applies the weighted operation stream.
func (r *runner) random(ctx context.Context) error {
	weights := r.cfg.Mix.weights()
	total := 0
	for _, w := range weights {
		total += w
	}
	for i := 0; i < r.cfg.Operations; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "workload interrupted after %d operations", i)
			}
		}
		op := pick(weights, r.rng.IntN(total))
		applied, err := r.apply(op)
		if errors.Is(err, arena.ErrOutOfMemory) {
			r.rep.Exhausted = true
			r.log.Warn("Arena exhausted", "op", op, "at", i, "len", r.l.Len(), "remaining", r.stor.Remaining())
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "operation %d (%s)", i, op)
		}
		if !applied {
			r.rep.Skipped++
			continue
		}
		r.rep.Applied++
		r.rep.Counts[op]++
		if r.rep.Applied%checkEvery == 0 {
			r.log.Trace("Workload progress", "applied", r.rep.Applied, "len", r.l.Len(), "used", r.stor.Used())
		}
	}
	return nil
}

// apply runs one operation. Removals on an empty list are skipped.
func (r *runner) apply(op Op) (bool, error) {
	l := r.l
	switch op {
	case OpPushBack:
		rec := r.next()
		if err := l.PushBack(rec); err != nil {
			return false, err
		}
		r.sum += rec.Value
	case OpPushFront:
		rec := r.next()
		if err := l.PushFront(rec); err != nil {
			return false, err
		}
		r.sum += rec.Value
	case OpPopBack:
		if l.Len() == 0 {
			return false, nil
		}
		r.sum -= l.PopBack().Value
	case OpPopFront:
		if l.Len() == 0 {
			return false, nil
		}
		r.sum -= l.PopFront().Value
	case OpInsert:
		rec := r.next()
		if _, err := l.Insert(r.position(r.rng.IntN(l.Len()+1)), rec); err != nil {
			return false, err
		}
		r.sum += rec.Value
	case OpErase:
		if l.Len() == 0 {
			return false, nil
		}
		it := r.position(r.rng.IntN(l.Len()))
		r.sum -= it.Value().Value
		l.Erase(it)
	default:
		return false, errors.Newf("unknown operation %d", int(op))
	}
	return true, nil
}

// position returns the iterator i steps from the front, walking from
// whichever end is closer.
func (r *runner) position(i int) list.Iterator[Record] {
	n := r.l.Len()
	if i <= n/2 {
		it := r.l.Begin()
		for ; i > 0; i-- {
			it = it.Next()
		}
		return it
	}
	it := r.l.End()
	for ; i < n; i++ {
		it = it.Prev()
	}
	return it
}

// next makes a new record.
func (r *runner) next() Record {
	r.seq++
	rec := Record{Seq: r.seq, Value: r.rng.Int64N(1 << 32)}
	for i := range rec.Tag {
		rec.Tag[i] = byte('a' + r.rng.IntN(26))
	}
	return rec
}

// records yields n new records and keeps the running sum.
func (r *runner) records(n int) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for i := 0; i < n; i++ {
			rec := r.next()
			r.sum += rec.Value
			if !yield(rec) {
				return
			}
		}
	}
}

// verify walks the list both ways and checks it against the running sum.
func (r *runner) verify() error {
	var fwd, bwd int64
	count := 0
	for rec := range r.l.All() {
		fwd += rec.Value
		count++
	}
	for rec := range r.l.Backward() {
		bwd += rec.Value
	}
	if count != r.l.Len() {
		return errors.Newf("list walk found %d records, Len reports %d", count, r.l.Len())
	}
	if fwd != r.sum || bwd != r.sum {
		return errors.Newf("checksum mismatch: forward %d, backward %d, expected %d", fwd, bwd, r.sum)
	}
	r.rep.Checksum = r.sum
	return nil
}

// pick maps n in [0, total) onto the operation owning that slice of the
// weights.
func pick(weights [numOps]int, n int) Op {
	for op, w := range weights {
		if n < w {
			return Op(op)
		}
		n -= w
	}
	return numOps - 1
}
