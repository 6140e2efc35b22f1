// Package mockapi provides a very basic mock API of a sensor network for examples and demos.
// It's intentionally kept public to enable running and experimenting with examples in the Go Playground.
// All values are deterministic, only the latency is random.
package mockapi

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"
)

type Sensor struct {
	ID       int
	Name     string
	Location string
}

// Reading is a single measurement reported by a sensor.
type Reading struct {
	SensorID int
	Seq      int
	Value    float64
}

// don't use pointers here, to make sure that raw data is not accessible from outside
var sensors []Sensor
var stored []Reading

var mu sync.RWMutex

func init() {
	const sensorsCount = 20

	var kinds = []string{"Temp", "Humidity", "Pressure", "Wind", "Light"}
	var locations = []string{"Roof", "Basement", "Lobby", "Garage", "Office"}

	mu.Lock()
	defer mu.Unlock()

	sensors = make([]Sensor, 0, sensorsCount)
	for i := 1; i <= sensorsCount; i++ {
		sensors = append(sensors, Sensor{
			ID:       i,
			Name:     fmt.Sprintf("%s-%d", kinds[hash(i, "kind")%len(kinds)], i),
			Location: locations[hash(i, "loc")%len(locations)],
		})
	}
}

// GetSensors returns sensors by IDs in one request.
// If a sensor is not found, nil is returned in the corresponding position.
func GetSensors(ctx context.Context, ids []int) ([]*Sensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	randomSleep(ctx, 200*time.Millisecond)

	mu.RLock()
	defer mu.RUnlock()

	res := make([]*Sensor, 0, len(ids))
	for _, id := range ids {
		idx, err := getSensorIndex(id)
		if err != nil {
			res = append(res, nil)
			continue
		}
		sensor := sensors[idx]
		res = append(res, &sensor)
	}

	return res, nil
}

// ReadingAt returns the reading number seq of a sensor. The value is pseudo-random, but deterministic.
func ReadingAt(sensorID, seq int) Reading {
	return Reading{
		SensorID: sensorID,
		Seq:      seq,
		Value:    float64(hash(sensorID, seq, "value")%1000) / 10,
	}
}

// SaveReadings stores a batch of readings in one request.
func SaveReadings(ctx context.Context, batch []Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	randomSleep(ctx, 100*time.Millisecond)

	if len(batch) == 0 {
		return fmt.Errorf("batch is empty")
	}

	mu.Lock()
	defer mu.Unlock()

	for _, r := range batch {
		if _, err := getSensorIndex(r.SensorID); err != nil {
			return fmt.Errorf("reading %d: %w", r.Seq, err)
		}
	}
	stored = append(stored, batch...)
	return nil
}

// StoredCount returns the number of readings saved so far.
func StoredCount() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(stored)
}

func getSensorIndex(id int) (int, error) {
	for i, s := range sensors {
		if s.ID == id {
			return i, nil
		}
	}

	return -1, fmt.Errorf("sensor %d not found", id)
}

func hash(input ...any) int {
	hasher := fnv.New32()
	fmt.Fprintln(hasher, input...)
	return int(hasher.Sum32())
}

func randomSleep(ctx context.Context, max time.Duration) {
	dur := time.Duration(rand.Intn(int(max)))
	t := time.NewTimer(dur)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
