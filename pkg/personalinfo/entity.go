package personalinfo

import (
	"context"
	"errors"
	"time"
)

// PersonalInfo — анкета кандидата, создаётся HR вместе с оффером и
// заполняется кандидатом до истечения DueTime. Пять полей-файлов хранят
// URL загруженных документов.
type PersonalInfo struct {
	Email             string
	DueTime           time.Time
	Name              string
	Nickname          string
	Mobile            string
	Address           string
	DOB               string
	BloodType         string
	LineID            string
	University        string
	Qualification     string
	Major             string
	GPA               float64
	Reason            string
	OtherReason       string
	Strength          string
	Weakness          string
	Opportunity       string
	Threats           string
	RecruitmentSource string

	VideoClip         string
	GradeReport       string
	HomeRegistration  string
	IDCard            string
	SlidePresentation string
}

// FileFields перечисляет допустимые имена полей-файлов анкеты.
var FileFields = map[string]bool{
	"videoClip":         true,
	"gradeReport":       true,
	"homeRegistration":  true,
	"idCard":            true,
	"slidePresentation": true,
}

// FileURL returns the stored URL for one of the file fields.
func (p *PersonalInfo) FileURL(field string) string {
	switch field {
	case "videoClip":
		return p.VideoClip
	case "gradeReport":
		return p.GradeReport
	case "homeRegistration":
		return p.HomeRegistration
	case "idCard":
		return p.IDCard
	case "slidePresentation":
		return p.SlidePresentation
	}
	return ""
}

// SetFileURL stores the URL for one of the file fields.
func (p *PersonalInfo) SetFileURL(field, url string) {
	switch field {
	case "videoClip":
		p.VideoClip = url
	case "gradeReport":
		p.GradeReport = url
	case "homeRegistration":
		p.HomeRegistration = url
	case "idCard":
		p.IDCard = url
	case "slidePresentation":
		p.SlidePresentation = url
	}
}

var ErrNotFound = errors.New("personal info not found")

// Repository — порт хранения анкет.
type Repository interface {
	Create(ctx context.Context, p PersonalInfo) error
	Update(ctx context.Context, p PersonalInfo) error
	Get(ctx context.Context, email string) (PersonalInfo, error)
}
