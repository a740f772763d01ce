package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/export"
	"github.com/san-kum/msdsim/internal/physics"
	"github.com/san-kum/msdsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	parametersFile = "parameters.csv"
)

// ErrNotFound is returned when a run directory has no metadata.
var ErrNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir returns the directory holding runID.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// SystemParams are the five model inputs, enough to rebuild the model.
type SystemParams struct {
	Mass      float64 `json:"mass"`
	Damping   float64 `json:"damping"`
	Stiffness float64 `json:"stiffness"`
	X0        float64 `json:"x0"`
	V0        float64 `json:"v0"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	System     SystemParams       `json:"system"`
	Zeta       float64            `json:"zeta"`
	Regime     string             `json:"regime"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Samples    int                `json:"samples"`
	Reason     string             `json:"reason"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Model rebuilds the mass-spring-damper the run was made with.
func (m *RunMetadata) Model() (physics.MassSpringDamper, error) {
	p := m.System
	return physics.New(p.Mass, p.Damping, p.Stiffness, p.X0, p.V0)
}

// Save writes metadata, trajectory and parameter table for one run and
// returns its id.
func (s *Store) Save(sys physics.MassSpringDamper, integrator string, result *sim.Result) (string, error) {
	now := time.Now().UTC()
	runID := fmt.Sprintf("%s_%d", integrator, now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	tr := result.Trajectory
	meta := RunMetadata{
		ID:         runID,
		Timestamp:  now,
		Integrator: integrator,
		System: SystemParams{
			Mass:      sys.Mass(),
			Damping:   sys.Damping(),
			Stiffness: sys.Stiffness(),
			X0:        sys.InitialPosition(),
			V0:        sys.InitialVelocity(),
		},
		Zeta:     sys.DampingRatio(),
		Regime:   sys.Regime().String(),
		Dt:       tr.Dt,
		Duration: tr.Duration(),
		Samples:  tr.Len(),
		Reason:   tr.Reason.String(),
		Metrics:  result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := export.ExportTrajectory(filepath.Join(runDir, trajectoryFile), tr); err != nil {
		return "", err
	}
	if err := export.ExportParameters(filepath.Join(runDir, parametersFile), sys); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads the samples of runID back.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.Dir(runID), trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 4

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s trajectory: %w", runID, err)
	}

	tr := dynamo.NewTrajectory(meta.Dt, len(records))
	tr.Reason = parseReason(meta.Reason)
	if len(records) < 2 {
		return tr, nil
	}

	var row [4]float64
	for i, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s trajectory line %d: %w", runID, i+2, err)
			}
			row[j] = v
		}
		tr.Append(row[0], row[1], row[2], row[3])
	}

	return tr, nil
}

func parseReason(s string) dynamo.StopReason {
	for _, r := range []dynamo.StopReason{dynamo.StopPeakDecay, dynamo.StopHorizon, dynamo.StopInvalidState} {
		if r.String() == s {
			return r
		}
	}
	return dynamo.StopIterationCap
}
