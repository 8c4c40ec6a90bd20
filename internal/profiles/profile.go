package profiles

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/2beens/mm2kbench/internal/mm2k"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrRevisionNotFound = errors.New("profile revision not found")
	ErrAthleteNotFound  = errors.New("athlete not found")
	ErrInvalidKey       = errors.New("invalid profile key")
)

var keyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

func ValidateKey(key string) error {
	if !keyRegex.MatchString(key) {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return nil
}

type Meta struct {
	Rev         int        `json:"rev"`
	LastSavedAt *time.Time `json:"lastSavedAt,omitempty"`
}

// Profile is one account's stored document: all its athletes plus the revision counter
type Profile struct {
	Users       []mm2k.Athlete `json:"users"`
	ProfileMeta Meta           `json:"profileMeta"`
}

func (p *Profile) athleteIndex(id string) int {
	for i := range p.Users {
		if p.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Profile) Athlete(id string) (mm2k.Athlete, error) {
	i := p.athleteIndex(id)
	if i < 0 {
		return mm2k.Athlete{}, fmt.Errorf("%s: %w", id, ErrAthleteNotFound)
	}
	return p.Users[i], nil
}

func (p *Profile) replaceAthlete(a mm2k.Athlete) error {
	i := p.athleteIndex(a.ID)
	if i < 0 {
		return fmt.Errorf("%s: %w", a.ID, ErrAthleteNotFound)
	}
	p.Users[i] = a
	return nil
}

func (p *Profile) removeAthlete(id string) error {
	i := p.athleteIndex(id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrAthleteNotFound)
	}
	p.Users = append(p.Users[:i], p.Users[i+1:]...)
	return nil
}

// Revision describes one stored history snapshot
type Revision struct {
	Rev      int       `json:"rev"`
	Pathname string    `json:"pathname"`
	Size     int64     `json:"size"`
	SavedAt  time.Time `json:"uploadedAt"`
}

// Summary is the admin listing row for a profile
type Summary struct {
	Key        string    `json:"blobKey"`
	Pathname   string    `json:"pathname"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	Revisions  int       `json:"revisions"`
}
