package planner

import (
	"strings"

	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/utils"
)

// TemplatePatch moves or re-times a template. Nil fields are left alone.
type TemplatePatch struct {
	QueueID   *string
	DayOfWeek *int
	StartTime *string
	EndTime   *string
}

func (s *Store) QueueTemplates() []models.QueueTemplate {
	return append([]models.QueueTemplate{}, s.templates...)
}

func (s *Store) QueueTemplate(id string) (models.QueueTemplate, error) {
	i := s.templateIndex(id)
	if i < 0 {
		return models.QueueTemplate{}, notFound("queue template", id)
	}
	return s.templates[i], nil
}

// TemplatesForQueue returns the queue's templates in collection order.
func (s *Store) TemplatesForQueue(queueID string) []models.QueueTemplate {
	out := []models.QueueTemplate{}
	for _, tpl := range s.templates {
		if tpl.QueueID == queueID {
			out = append(out, tpl)
		}
	}
	return out
}

// CreateQueueTemplate places queueID on a weekday slot. Overlapping slots
// are allowed.
func (s *Store) CreateQueueTemplate(queueID string, dayOfWeek int, start, end string) (models.QueueTemplate, error) {
	tpl := models.QueueTemplate{
		QueueID:   strings.Clone(queueID),
		DayOfWeek: dayOfWeek,
		StartTime: start,
		EndTime:   end,
	}
	if err := validateSlot(tpl); err != nil {
		return models.QueueTemplate{}, err
	}
	if s.queueIndex(queueID) < 0 {
		return models.QueueTemplate{}, notFound("queue", queueID)
	}

	tpl.ID = s.uniqueID(constants.TemplateIDPrefix, func(id string) bool { return s.templateIndex(id) >= 0 })
	s.templates = append(s.templates, tpl)
	return tpl, nil
}

// UpdateQueueTemplate applies patch. A changed queue id must exist.
func (s *Store) UpdateQueueTemplate(id string, patch TemplatePatch) (models.QueueTemplate, error) {
	i := s.templateIndex(id)
	if i < 0 {
		return models.QueueTemplate{}, notFound("queue template", id)
	}

	tpl := s.templates[i]
	if patch.QueueID != nil {
		tpl.QueueID = strings.Clone(*patch.QueueID)
	}
	if patch.DayOfWeek != nil {
		tpl.DayOfWeek = *patch.DayOfWeek
	}
	if patch.StartTime != nil {
		tpl.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		tpl.EndTime = *patch.EndTime
	}

	if err := validateSlot(tpl); err != nil {
		return models.QueueTemplate{}, err
	}
	if s.queueIndex(tpl.QueueID) < 0 {
		return models.QueueTemplate{}, notFound("queue", tpl.QueueID)
	}

	s.templates[i] = tpl
	return tpl, nil
}

// DeleteQueueTemplate removes a placement. Task assignments are untouched.
func (s *Store) DeleteQueueTemplate(id string) error {
	i := s.templateIndex(id)
	if i < 0 {
		return notFound("queue template", id)
	}
	s.templates = append(s.templates[:i], s.templates[i+1:]...)
	return nil
}

func validateSlot(tpl models.QueueTemplate) error {
	if tpl.DayOfWeek < constants.FirstWorkday || tpl.DayOfWeek > constants.LastWorkday {
		return invalid("dayOfWeek %d must be between %d (Monday) and %d (Friday)",
			tpl.DayOfWeek, constants.FirstWorkday, constants.LastWorkday)
	}
	if !utils.ValidateTimeFormat(tpl.StartTime) {
		return invalid("startTime %q must be HH:MM", tpl.StartTime)
	}
	if !utils.ValidateTimeFormat(tpl.EndTime) {
		return invalid("endTime %q must be HH:MM", tpl.EndTime)
	}
	// zero-padded HH:MM compares correctly as strings
	if tpl.StartTime >= tpl.EndTime {
		return invalid("startTime %s must be before endTime %s", tpl.StartTime, tpl.EndTime)
	}
	return nil
}
