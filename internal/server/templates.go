package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/bium/internal/planner"
)

// listTemplates returns every template, or those of one queue when the
// queueId query parameter is set.
func (s *Server) listTemplates(c *fiber.Ctx) error {
	if queueID := c.Query("queueId"); queueID != "" {
		if _, err := s.svc.Queue(queueID); err != nil {
			return err
		}
		return c.JSON(s.svc.TemplatesForQueue(queueID))
	}
	return c.JSON(s.svc.QueueTemplates())
}

func (s *Server) getTemplate(c *fiber.Ctx) error {
	tpl, err := s.svc.QueueTemplate(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(tpl)
}

func (s *Server) createTemplate(c *fiber.Ctx) error {
	var req CreateTemplateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tpl, err := s.svc.CreateQueueTemplate(req.QueueID, req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tpl)
}

func (s *Server) updateTemplate(c *fiber.Ctx) error {
	var req UpdateTemplateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tpl, err := s.svc.UpdateQueueTemplate(c.Params("id"), planner.TemplatePatch{
		QueueID:   req.QueueID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(tpl)
}

func (s *Server) deleteTemplate(c *fiber.Ctx) error {
	if err := s.svc.DeleteQueueTemplate(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
