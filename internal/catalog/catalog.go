// Package catalog holds the static faculty/subject configuration. It is
// loaded once at startup and never mutated afterwards, so lookups are safe
// from any goroutine.
package catalog

import (
	"fmt"

	"faculty-connect/internal/config"
	domain "faculty-connect/internal/domain/selection"
)

// Pair is one valid (faculty, subject) combination.
type Pair struct {
	FacultyID string
	SubjectID string
	Capacity  int
}

// Catalog answers lookup questions about faculties, subjects and the slot
// keys derived from them.
type Catalog struct {
	faculties  []domain.Faculty
	subjects   []domain.Subject
	facultyIdx map[string]*domain.Faculty
	subjectIdx map[string]*domain.Subject
	eligible   map[string]bool // "<facultyID>_<subjectID>"
}

// New builds a catalog from configuration and validates its internal
// references.
func New(cfg config.CatalogConfig) (*Catalog, error) {
	if len(cfg.Faculties) == 0 {
		return nil, fmt.Errorf("catalog has no faculties")
	}
	if len(cfg.Subjects) == 0 {
		return nil, fmt.Errorf("catalog has no subjects")
	}

	c := &Catalog{
		faculties:  make([]domain.Faculty, 0, len(cfg.Faculties)),
		subjects:   make([]domain.Subject, 0, len(cfg.Subjects)),
		facultyIdx: make(map[string]*domain.Faculty),
		subjectIdx: make(map[string]*domain.Subject),
		eligible:   make(map[string]bool),
	}

	for _, f := range cfg.Faculties {
		if f.ID == "" {
			return nil, fmt.Errorf("faculty with empty id in catalog")
		}
		if f.Capacity <= 0 {
			return nil, fmt.Errorf("faculty %s has non-positive capacity %d", f.ID, f.Capacity)
		}
		if _, dup := c.facultyIdx[f.ID]; dup {
			return nil, fmt.Errorf("duplicate faculty id %s in catalog", f.ID)
		}
		c.faculties = append(c.faculties, domain.Faculty{
			ID:       f.ID,
			Name:     f.Name,
			Capacity: f.Capacity,
		})
		c.facultyIdx[f.ID] = &c.faculties[len(c.faculties)-1]
	}

	for _, s := range cfg.Subjects {
		if s.ID == "" {
			return nil, fmt.Errorf("subject with empty id in catalog")
		}
		if _, dup := c.subjectIdx[s.ID]; dup {
			return nil, fmt.Errorf("duplicate subject id %s in catalog", s.ID)
		}
		if len(s.Faculties) == 0 {
			return nil, fmt.Errorf("subject %s has no eligible faculties", s.ID)
		}
		for _, fid := range s.Faculties {
			if _, ok := c.facultyIdx[fid]; !ok {
				return nil, fmt.Errorf("subject %s references unknown faculty %s", s.ID, fid)
			}
			c.eligible[SlotKey(fid, s.ID)] = true
		}
		c.subjects = append(c.subjects, domain.Subject{
			ID:                 s.ID,
			Name:               s.Name,
			EligibleFacultyIDs: append([]string(nil), s.Faculties...),
		})
		c.subjectIdx[s.ID] = &c.subjects[len(c.subjects)-1]
	}

	return c, nil
}

// SlotKey is the canonical key for one (faculty, subject) counter.
func SlotKey(facultyID, subjectID string) string {
	return facultyID + "_" + subjectID
}

// Faculties returns every faculty in declaration order.
func (c *Catalog) Faculties() []domain.Faculty {
	return c.faculties
}

// Subjects returns every subject in declaration order. This order is the
// deterministic order the submission workflow reserves and compensates in.
func (c *Catalog) Subjects() []domain.Subject {
	return c.subjects
}

// FacultyByID returns the faculty with the given id, or nil.
func (c *Catalog) FacultyByID(id string) *domain.Faculty {
	return c.facultyIdx[id]
}

// SubjectByID returns the subject with the given id, or nil.
func (c *Catalog) SubjectByID(id string) *domain.Subject {
	return c.subjectIdx[id]
}

// Eligible reports whether facultyID may teach subjectID.
func (c *Catalog) Eligible(subjectID, facultyID string) bool {
	return c.eligible[SlotKey(facultyID, subjectID)]
}

// Pairs returns every valid (faculty, subject) pair in subject-major
// declaration order, each with the faculty's per-subject capacity.
func (c *Catalog) Pairs() []Pair {
	pairs := make([]Pair, 0, len(c.eligible))
	for _, s := range c.subjects {
		for _, fid := range s.EligibleFacultyIDs {
			pairs = append(pairs, Pair{
				FacultyID: fid,
				SubjectID: s.ID,
				Capacity:  c.facultyIdx[fid].Capacity,
			})
		}
	}
	return pairs
}
