package courseservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	coursedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/infrastructure/repositories"
	"gopkg.in/yaml.v3"
)

// CourseFile is the YAML layout used to seed courses.
//
//	course_id: pinecrest
//	tees:
//	  - name: white
//	    holes:
//	      - {number: 1, par: 4, stroke_index: 7, yardage: 380}
type CourseFile struct {
	CourseID string    `yaml:"course_id"`
	Tees     []TeeFile `yaml:"tees"`
}

// TeeFile is one tee in a CourseFile.
type TeeFile struct {
	Name  string                        `yaml:"name"`
	Holes []coursedomain.HoleDefinition `yaml:"holes"`
}

// ParseCourseFile reads and validates every tee in a course file.
func ParseCourseFile(r io.Reader) ([]*coursedomain.Tee, error) {
	var file CourseFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode course file: %w", err)
	}
	if file.CourseID == "" {
		return nil, errors.New("course file has no course_id")
	}
	if len(file.Tees) == 0 {
		return nil, fmt.Errorf("course %s has no tees", file.CourseID)
	}

	tees := make([]*coursedomain.Tee, 0, len(file.Tees))
	for _, tf := range file.Tees {
		tee, err := coursedomain.NewTee(file.CourseID, tf.Name, tf.Holes)
		if err != nil {
			return nil, fmt.Errorf("tee %s/%s: %w", file.CourseID, tf.Name, err)
		}
		tees = append(tees, tee)
	}
	return tees, nil
}

// MemoryTees serves tees held in memory. It backs rounds when no database
// is configured.
type MemoryTees struct {
	mu   sync.RWMutex
	tees map[string]*coursedomain.Tee
}

func NewMemoryTees(tees ...*coursedomain.Tee) *MemoryTees {
	m := &MemoryTees{tees: make(map[string]*coursedomain.Tee)}
	for _, t := range tees {
		m.tees[teeKey(t.CourseID(), t.Name())] = t
	}
	return m
}

var _ Service = (*MemoryTees)(nil)

func (m *MemoryTees) GetTee(_ context.Context, courseID, tee string) (*coursedomain.Tee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tees[teeKey(courseID, tee)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", coursedb.ErrNotFound, courseID, tee)
	}
	return t, nil
}

func (m *MemoryTees) ImportTee(_ context.Context, tee *coursedomain.Tee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tees[teeKey(tee.CourseID(), tee.Name())] = tee
	return nil
}

func teeKey(courseID, tee string) string {
	return courseID + "/" + tee
}
