package planner

import (
	"cmp"
	"slices"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/utils"
)

// Block is one template placed on a day, with the queue's tasks and load.
type Block struct {
	Template models.QueueTemplate `json:"template"`
	Queue    models.Queue         `json:"queue"`
	Tasks    []models.Task        `json:"tasks"`
	Load     capacity.Load        `json:"load"`
}

// DayPlan is the set of blocks on one weekday.
type DayPlan struct {
	Day    utils.WeekDay `json:"day"`
	Blocks []Block       `json:"blocks"`
}

// UsedMinutes sums the durations of the queue's tasks that are not completed.
func (s *Store) UsedMinutes(queueID string) int {
	used := 0
	for _, t := range s.tasks {
		if t.QueueID() == queueID && t.Active() {
			used += t.DurationMinutes
		}
	}
	return used
}

// QueueLoad measures a queue against the length of its first template, or
// a default block length when it has none.
func (s *Store) QueueLoad(queueID string) (capacity.Load, error) {
	if s.queueIndex(queueID) < 0 {
		return capacity.Load{}, notFound("queue", queueID)
	}

	total := constants.DefaultQueueCapacityMin
	if tpls := s.TemplatesForQueue(queueID); len(tpls) > 0 {
		d, err := capacity.DurationMinutes(tpls[0].StartTime, tpls[0].EndTime)
		if err != nil {
			return capacity.Load{}, err
		}
		total = d
	}
	return capacity.Compute(s.UsedMinutes(queueID), total), nil
}

// WeekPlan lays the templates out over days. Blocks are ordered by start
// time and each block's tasks by title.
func (s *Store) WeekPlan(days []utils.WeekDay) []DayPlan {
	plans := make([]DayPlan, 0, len(days))
	for _, day := range days {
		plan := DayPlan{Day: day, Blocks: []Block{}}

		var tpls []models.QueueTemplate
		for _, tpl := range s.templates {
			if tpl.DayOfWeek == day.DayOfWeek {
				tpls = append(tpls, tpl)
			}
		}
		slices.SortStableFunc(tpls, func(a, b models.QueueTemplate) int {
			return cmp.Compare(a.StartTime, b.StartTime)
		})

		for _, tpl := range tpls {
			qi := s.queueIndex(tpl.QueueID)
			if qi < 0 {
				continue
			}
			tasks := s.TasksForQueue(tpl.QueueID)
			slices.SortStableFunc(tasks, func(a, b models.Task) int {
				return cmp.Compare(a.Title, b.Title)
			})
			total, err := capacity.DurationMinutes(tpl.StartTime, tpl.EndTime)
			if err != nil {
				total = 0
			}
			plan.Blocks = append(plan.Blocks, Block{
				Template: tpl,
				Queue:    s.queueView(qi),
				Tasks:    tasks,
				Load:     capacity.Compute(s.UsedMinutes(tpl.QueueID), total),
			})
		}
		plans = append(plans, plan)
	}
	return plans
}
