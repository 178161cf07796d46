package api

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is how timestamps are shown in grids (day/month/year).
const DateLayout = "02/01/2006 15:04"

const apiTimestampLayout = "2006-01-02 15:04:05"

// Resource paths relative to the API root.
const (
	ResourceCases      = "cases"
	ResourceUsers      = "users"
	ResourceActivities = "activities"
)

// Record is a row the console can list: it has an id and exposes its fields
// by name for Field column bindings.
type Record interface {
	RecordID() int64
	Field(name string) string
}

// User mirrors the users resource.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Manager   bool   `json:"manager"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// RecordID implements Record.
func (u User) RecordID() int64 { return u.ID }

// Field implements Record.
func (u User) Field(name string) string {
	switch name {
	case "id":
		return strconv.FormatInt(u.ID, 10)
	case "name":
		return u.Name
	case "email":
		return u.Email
	case "manager":
		return strconv.FormatBool(u.Manager)
	case "active":
		return strconv.FormatBool(u.Active)
	case "createdAt":
		return formatDate(u.CreatedAt)
	case "updatedAt":
		return formatDate(u.UpdatedAt)
	}
	return ""
}

// VideoCase is a video attached to a case.
type VideoCase struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Case mirrors the cases resource. Teacher is only filled when the request
// asks for it with populate=teacher.
type Case struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Shared      bool        `json:"shared"`
	Active      bool        `json:"active"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
	Teacher     *User       `json:"teacher,omitempty"`
	Videos      []VideoCase `json:"videos,omitempty"`
}

// RecordID implements Record.
func (c Case) RecordID() int64 { return c.ID }

// Field implements Record.
func (c Case) Field(name string) string {
	switch name {
	case "id":
		return strconv.FormatInt(c.ID, 10)
	case "title":
		return c.Title
	case "description":
		return c.Description
	case "shared":
		return strconv.FormatBool(c.Shared)
	case "active":
		return strconv.FormatBool(c.Active)
	case "createdAt":
		return formatDate(c.CreatedAt)
	case "updatedAt":
		return formatDate(c.UpdatedAt)
	case "teacher":
		if c.Teacher == nil {
			return ""
		}
		return c.Teacher.Name
	case "videos":
		return strconv.Itoa(len(c.Videos))
	}
	return ""
}

// Activity mirrors the activities resource.
type Activity struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CaseID    int64  `json:"caseId"`
	CaseTitle string `json:"caseTitle"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// RecordID implements Record.
func (a Activity) RecordID() int64 { return a.ID }

// Field implements Record.
func (a Activity) Field(name string) string {
	switch name {
	case "id":
		return strconv.FormatInt(a.ID, 10)
	case "title":
		return a.Title
	case "case":
		if strings.TrimSpace(a.CaseTitle) != "" {
			return a.CaseTitle
		}
		if a.CaseID > 0 {
			return "#" + strconv.FormatInt(a.CaseID, 10)
		}
		return ""
	case "active":
		return strconv.FormatBool(a.Active)
	case "createdAt":
		return formatDate(a.CreatedAt)
	case "updatedAt":
		return formatDate(a.UpdatedAt)
	}
	return ""
}

// ParseTime parses API timestamps, returning the zero time when value is
// empty or unrecognised.
func ParseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(apiTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

func formatDate(value string) string {
	t := ParseTime(value)
	if t.IsZero() {
		return value
	}
	return t.Local().Format(DateLayout)
}
