package solve

import (
	"github.com/tliron/commonlog"

	"github.com/chazu/synacor/room"
)

var log = commonlog.GetLogger("synacor.solve")

// Recorder receives rooms discovered while a solver walks the world, along
// with the input transcript that reached each one. Implementations live
// outside the solvers (the atlas store is one); a nil Recorder disables
// recording.
type Recorder interface {
	Record(r *room.Room, transcript string) error
}

// record is a nil-tolerant Recorder call; a failed recording is logged and
// does not interrupt the walk.
func record(rec Recorder, r *room.Room, transcript string) {
	if rec == nil || r == nil {
		return
	}
	if err := rec.Record(r, transcript); err != nil {
		log.Errorf("recording room %q: %s", r.Title, err.Error())
	}
}
