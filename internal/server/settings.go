package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/obsidian"
	"github.com/julianstephens/bium/internal/planner"
)

func (s *Server) week(c *fiber.Ctx) error {
	return c.JSON(s.svc.Week())
}

func (s *Server) getSettings(c *fiber.Ctx) error {
	return c.JSON(s.svc.Settings())
}

func (s *Server) updateSettings(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	patch := planner.SettingsPatch{
		ObsidianVaultPath:     req.ObsidianVaultPath.patch(),
		ObsidianDefaultFolder: req.ObsidianDefaultFolder.patch(),
	}
	if req.Language != nil {
		lang := models.Language(*req.Language)
		if !lang.Valid() {
			return badRequest("Unsupported language")
		}
		patch.Language = &lang
	}
	settings, err := s.svc.UpdateSettings(patch)
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

func (s *Server) vault() (*obsidian.Vault, error) {
	return obsidian.Open(s.svc.Settings().VaultPath())
}

// validateVault checks the path query parameter, or the configured vault
// when it is absent.
func (s *Server) validateVault(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		path = s.svc.Settings().VaultPath()
	}
	return c.JSON(obsidian.Validate(path))
}

func (s *Server) listNotes(c *fiber.Ctx) error {
	v, err := s.vault()
	if err != nil {
		return err
	}
	notes, err := v.Notes()
	if err != nil {
		return err
	}
	if notes == nil {
		notes = []string{}
	}
	return c.JSON(notes)
}

func (s *Server) listFolders(c *fiber.Ctx) error {
	v, err := s.vault()
	if err != nil {
		return err
	}
	folders, err := v.Folders()
	if err != nil {
		return err
	}
	if folders == nil {
		folders = []string{}
	}
	return c.JSON(folders)
}

func (s *Server) createNote(c *fiber.Ctx) error {
	var req CreateNoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Title) == "" {
		return badRequest("title is required")
	}
	v, err := s.vault()
	if err != nil {
		return err
	}
	folder := s.svc.Settings().DefaultFolder()
	if req.Folder != nil {
		folder = *req.Folder
	}
	notePath, err := v.CreateNote(req.Title, folder)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(CreateNoteResponse{
		Path: notePath,
		URI:  v.URI(notePath),
	})
}
