package stats

import (
	"fmt"

	"github.com/Emes13/habittrax/pkg/habit"
)

type Bucket string

const (
	BucketDay  Bucket = "day"
	BucketWeek Bucket = "week"
)

func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case "", BucketDay:
		return BucketDay, nil
	case BucketWeek:
		return BucketWeek, nil
	}
	return "", &habit.ValidationError{Field: "bucket", Value: s, Reason: fmt.Sprintf("must be %q or %q", BucketDay, BucketWeek)}
}

// TrendPoint aggregates the daily snapshots of every day in [Start, End].
type TrendPoint struct {
	Start habit.Date `json:"start"`
	End   habit.Date `json:"end"`
	Snapshot
}

// Trend returns one point per bucket between start and end inclusive. Week
// buckets are Monday-anchored and clipped to the range. Each day contributes
// its own active-habit denominator.
func Trend(habits []habit.Habit, logs []habit.HabitLog, start, end habit.Date, bucket Bucket) []TrendPoint {
	days := habit.Range(start, end)
	if len(days) == 0 {
		return nil
	}
	idx := indexLogs(logs)

	var out []TrendPoint
	var cur *TrendPoint
	for _, d := range days {
		bs := d
		if bucket == BucketWeek {
			bs = habit.WeekOf(d).Start
			if bs.Before(start) {
				bs = start
			}
		}
		if cur == nil || cur.Start != bs {
			out = append(out, TrendPoint{Start: bs, Snapshot: Snapshot{Date: bs}})
			cur = &out[len(out)-1]
		}
		cur.End = d
		cur.merge(idx.daily(habits, d))
	}
	for i := range out {
		out[i].finish()
	}
	return out
}
