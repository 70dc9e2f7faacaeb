// Package trackers implements Trackers, which track and save data in
// an experiment
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/samuelfneumann/corridorgrid/timestep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error

	// Data returns one value per finished episode
	Data() []float64
}

// save gob-encodes data into the file filename
func save(filename string, data []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not open save file: %w", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(data); err != nil {
		return fmt.Errorf("could not encode data: %w", err)
	}
	return file.Close()
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64

	if err = dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}
	return data, nil
}

// Summary summarizes the per-episode data of a Tracker
type Summary struct {
	Episodes int
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
}

// Summarize returns the Summary of data. An empty data set has a zero
// Summary.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	mean, std := stat.MeanStdDev(data, nil)
	if len(data) == 1 {
		std = 0
	}
	return Summary{
		Episodes: len(data),
		Mean:     mean,
		StdDev:   std,
		Min:      floats.Min(data),
		Max:      floats.Max(data),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("episodes: %d  |  mean: %.3f  |  std: %.3f  |  "+
		"min: %.3f  |  max: %.3f", s.Episodes, s.Mean, s.StdDev, s.Min, s.Max)
}
