package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/bium/internal/planner"
)

func (s *Server) listTasks(c *fiber.Ctx) error {
	return c.JSON(s.svc.Tasks())
}

func (s *Server) listInbox(c *fiber.Ctx) error {
	return c.JSON(s.svc.InboxTasks())
}

func (s *Server) getTask(c *fiber.Ctx) error {
	t, err := s.svc.Task(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	t, err := s.svc.CreateTask(req.Title, req.DurationMinutes)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	t, err := s.svc.UpdateTask(c.Params("id"), planner.TaskPatch{
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		ObsidianLink:    req.ObsidianLink.patch(),
	})
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	if err := s.svc.DeleteTask(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) completeTask(c *fiber.Ctx) error {
	t, err := s.svc.Complete(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(t)
}

func (s *Server) uncompleteTask(c *fiber.Ctx) error {
	t, err := s.svc.Uncomplete(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(t)
}
