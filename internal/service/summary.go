package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
	"github.com/Priyankm23/odoo-hackathon-project/internal/queue"
	"github.com/Priyankm23/odoo-hackathon-project/internal/repository"
)

// MonthlyDigest publishes a points summary to every user on the first
// of each month.
type MonthlyDigest struct {
	Users *repository.UserRepo
	Items *repository.ItemRepo
	Log   *logrus.Logger
}

func NewMonthlyDigest(u *repository.UserRepo, i *repository.ItemRepo, log *logrus.Logger) *MonthlyDigest {
	return &MonthlyDigest{Users: u, Items: i, Log: log}
}

// Start schedules the digest at 08:00 UTC on the first of the month and
// returns the running scheduler so main can stop it on shutdown.
func (m *MonthlyDigest) Start() *cron.Cron {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc("0 8 1 * *", m.Run); err != nil {
		m.Log.WithError(err).Error("digest: schedule failed")
		return c
	}
	c.Start()
	return c
}

// Run sends the digest once. Exported so it can be triggered manually.
func (m *MonthlyDigest) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	available, err := m.Items.CountByStatus(ctx, model.ItemStatusAvailable)
	if err != nil {
		m.Log.WithError(err).Error("digest: count available items failed")
		return
	}
	users, err := m.Users.ListAll(ctx)
	if err != nil {
		m.Log.WithError(err).Error("digest: list users failed")
		return
	}

	detail := fmt.Sprintf("There are %d items waiting for a new home.", available)
	sent := 0
	for _, u := range users {
		ev := queue.NotificationEvent{
			Type:   queue.EventMonthlyDigest,
			UserID: u.ID,
			Email:  u.Email,
			Name:   u.Name,
			Points: u.Points,
			Detail: detail,
		}
		if err := PublishNotification(ctx, m.Log, ev); err != nil {
			m.Log.WithError(err).WithField("user_id", u.ID).Warn("digest: publish failed")
			continue
		}
		sent++
	}
	m.Log.WithFields(logrus.Fields{"users": len(users), "sent": sent}).Info("digest: monthly run complete")
}
