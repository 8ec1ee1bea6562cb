package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laptev-dv/diploma-backend/internal/apperrors"
	"github.com/laptev-dv/diploma-backend/internal/models"
	"github.com/laptev-dv/diploma-backend/internal/repository"
)

type FolderHandler struct {
	log *zap.Logger
}

func NewFolderHandler(log *zap.Logger) *FolderHandler {
	return &FolderHandler{log: log}
}

type folderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *FolderHandler) Create(c *gin.Context) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid folder payload"})
		return
	}

	folder := &models.Folder{
		Name:        req.Name,
		Description: req.Description,
		AuthorID:    callerID(c),
	}
	if err := folder.Validate(); err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := repository.CreateFolder(c.Request.Context(), folder); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// List supports ?search= substring filtering and ?sort= ordering.
func (h *FolderHandler) List(c *gin.Context) {
	folders, err := repository.ListFolders(c.Request.Context(), c.Query("search"), c.Query("sort"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (h *FolderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	folder, err := repository.GetFolderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func (h *FolderHandler) Update(c *gin.Context) {
	folder, ok := h.authorizedFolder(c)
	if !ok {
		return
	}

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid folder payload"})
		return
	}

	folder.Name = req.Name
	folder.Description = req.Description
	if err := folder.Validate(); err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := repository.UpdateFolder(c.Request.Context(), folder); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

type folderExperimentsRequest struct {
	ExperimentIDs []uint `json:"experimentIds"`
}

// SetExperiments replaces the folder's experiment membership. Duplicate
// IDs collapse to a single membership.
func (h *FolderHandler) SetExperiments(c *gin.Context) {
	folder, ok := h.authorizedFolder(c)
	if !ok {
		return
	}

	var req folderExperimentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "experimentIds is required"})
		return
	}

	unique := make([]uint, 0, len(req.ExperimentIDs))
	seen := make(map[uint]struct{}, len(req.ExperimentIDs))
	for _, id := range req.ExperimentIDs {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	experiments, err := repository.GetExperimentsByIDs(c.Request.Context(), unique)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if len(experiments) != len(unique) {
		respondError(c, h.log, apperrors.Validation("some experiments do not exist"))
		return
	}

	if err := repository.SetFolderExperiments(c.Request.Context(), folder, experiments); err != nil {
		respondError(c, h.log, err)
		return
	}
	folder.Experiments = experiments
	c.JSON(http.StatusOK, folder)
}

func (h *FolderHandler) Delete(c *gin.Context) {
	folder, ok := h.authorizedFolder(c)
	if !ok {
		return
	}
	if err := repository.DeleteFolder(c.Request.Context(), folder.ID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "folder deleted"})
}

// authorizedFolder loads the folder and enforces author-only mutation.
func (h *FolderHandler) authorizedFolder(c *gin.Context) (*models.Folder, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	folder, err := repository.GetFolderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return nil, false
	}
	if folder.AuthorID != callerID(c) {
		respondError(c, h.log, apperrors.Forbidden("only the author can modify the folder"))
		return nil, false
	}
	return folder, true
}
