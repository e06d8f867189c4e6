package session

import (
	"fmt"
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/npillmayer/splinedit/edit"
)

// Op is the kind of an edit command.
type Op int

// Edit commands, abstracted from raw input events.
const (
	OpHold Op = iota
	OpSelectNext
	OpSelectPrevious
	OpJitter
	OpToggleShowPoints
	OpToggleShowLinear
	OpToggleShowTangents
	OpSetTension
	OpSetSampleStep
)

var opNames = [...]string{
	"hold", "select-next", "select-previous", "jitter",
	"toggle-points", "toggle-linear", "toggle-tangents",
	"set-tension", "set-sample-step",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opNames[op]
}

// Command is a discrete edit command. Dir and Pressed are used by OpHold,
// Value by OpSetTension and OpSetSampleStep.
type Command struct {
	Op      Op
	Dir     edit.Direction
	Pressed bool
	Value   float64
}

func (cmd Command) String() string {
	switch cmd.Op {
	case OpHold:
		return fmt.Sprintf("%s(%s,%v)", cmd.Op, cmd.Dir, cmd.Pressed)
	case OpSetTension, OpSetSampleStep:
		return fmt.Sprintf("%s(%g)", cmd.Op, cmd.Value)
	}
	return cmd.Op.String()
}

// commandQueue is a FIFO of commands, safe for concurrent producers.
type commandQueue struct {
	mx sync.Mutex
	q  *linkedlistqueue.Queue
}

func newCommandQueue() *commandQueue {
	return &commandQueue{q: linkedlistqueue.New()}
}

func (cq *commandQueue) push(cmd Command) {
	cq.mx.Lock()
	defer cq.mx.Unlock()
	cq.q.Enqueue(cmd)
}

// drain removes and returns all pending commands, oldest first.
func (cq *commandQueue) drain() []Command {
	cq.mx.Lock()
	defer cq.mx.Unlock()
	cmds := make([]Command, 0, cq.q.Size())
	for {
		v, ok := cq.q.Dequeue()
		if !ok {
			break
		}
		cmds = append(cmds, v.(Command))
	}
	return cmds
}

func (cq *commandQueue) size() int {
	cq.mx.Lock()
	defer cq.mx.Unlock()
	return cq.q.Size()
}
