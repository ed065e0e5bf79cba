package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/bium/internal/planner"
)

func (s *Server) listQueues(c *fiber.Ctx) error {
	return c.JSON(s.svc.Queues())
}

func (s *Server) getQueue(c *fiber.Ctx) error {
	q, err := s.svc.Queue(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(q)
}

func (s *Server) queueCapacity(c *fiber.Ctx) error {
	load, err := s.svc.QueueLoad(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(load)
}

func (s *Server) createQueue(c *fiber.Ctx) error {
	var req CreateQueueRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	q, err := s.svc.CreateQueue(req.Title, req.Color)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

func (s *Server) updateQueue(c *fiber.Ctx) error {
	var req UpdateQueueRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	q, err := s.svc.UpdateQueue(c.Params("id"), planner.QueuePatch{
		Title: req.Title,
		Color: req.Color,
	})
	if err != nil {
		return err
	}
	return c.JSON(q)
}

func (s *Server) deleteQueue(c *fiber.Ctx) error {
	if err := s.svc.DeleteQueue(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) assignTask(c *fiber.Ctx) error {
	var req MembershipRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.TaskID == "" {
		return badRequest("taskId is required")
	}
	m, err := s.svc.AssignToQueue(req.TaskID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(m)
}

func (s *Server) unassignTask(c *fiber.Ctx) error {
	var req MembershipRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.TaskID == "" {
		return badRequest("taskId is required")
	}
	m, err := s.svc.UnassignFromQueue(req.TaskID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(m)
}

func (s *Server) emptyAllQueues(c *fiber.Ctx) error {
	n, err := s.svc.EmptyAllQueues()
	if err != nil {
		return err
	}
	return c.JSON(EmptyAllResponse{
		Message:    "All queues emptied",
		TasksReset: n,
	})
}
