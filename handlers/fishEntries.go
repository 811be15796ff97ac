package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/fish_backend/config"
	"github.com/mmdatafocus/fish_backend/models"
	"github.com/mmdatafocus/fish_backend/store"
	"github.com/mmdatafocus/fish_backend/utils"
	"github.com/sirupsen/logrus"
)

const (
	MsgEntriesAdded   = "Fish entries added successfully"
	MsgEntriesSkipped = "Some fish entries were skipped due to duplicates"
	MsgEntryDeleted   = "Fish entry deleted successfully"
	MsgNoEntries      = "No fish entries provided"

	fishEntriesLockKey = "lock:fish-entries"
)

func ListFishEntriesHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := s.ListFishEntries(c.Request.Context())
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if entries == nil {
			entries = []models.FishEntry{}
		}
		c.JSON(http.StatusOK, entries)
	}
}

func AddFishEntriesHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.FishEntriesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(err)})
			return
		}
		if len(req.FishEntries) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": MsgNoEntries})
			return
		}

		ctx := c.Request.Context()
		release := obtainBatchLock(ctx)
		defer release()

		duplicates, err := s.AddFishEntries(ctx, req.FishEntries)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(duplicates) > 0 {
			c.JSON(http.StatusOK, models.MessageResponse{Message: MsgEntriesSkipped, Duplicates: duplicates})
			return
		}
		c.JSON(http.StatusCreated, models.MessageResponse{Message: MsgEntriesAdded})
	}
}

// obtainBatchLock serializes batch inserts across instances when Redis is
// up. Without Redis, or when the lock is busy, the insert goes ahead.
func obtainBatchLock(ctx context.Context) func() {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}
	}
	lock, err := locker.Obtain(ctx, fishEntriesLockKey, 30*time.Second, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		logger.WithFields(logrus.Fields{"field": "AddFishEntries"}).Warn("could not obtain redis lock; proceeding without redis lock")
		return func() {}
	} else if err != nil {
		logger.WithFields(logrus.Fields{"field": "AddFishEntries"}).Warn("error obtaining redis lock; proceeding without redis lock: " + err.Error())
		return func() {}
	}
	return func() {
		if releaseErr := lock.Release(ctx); releaseErr != nil {
			logger.WithFields(logrus.Fields{"field": "AddFishEntries"}).Warn("failed to release redis lock: " + releaseErr.Error())
		}
	}
}

func DeleteFishEntryHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fish entry id"})
			return
		}
		if err := s.DeleteFishEntry(c.Request.Context(), id); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "fish entry not found"})
				return
			}
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: MsgEntryDeleted})
	}
}
