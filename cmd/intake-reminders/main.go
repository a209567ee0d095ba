// Package main provides the reminder worker: a cron-driven scanner that
// publishes ReminderDue events for cases with upcoming deadlines or payment
// due dates.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	cli "github.com/urfave/cli/v3"

	"github.com/herreralegal/intake/pkg/cmd"
	"github.com/herreralegal/intake/pkg/log"
	"github.com/herreralegal/intake/pkg/services"
)

const defaultSchedule = "0 8 * * *"

func main() {
	logger := log.WithModule("reminders")

	command := &cli.Command{
		Name:                  "intake-reminders",
		Usage:                 "Scan cases for upcoming deadlines and publish reminders",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "kafka",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "schedule",
				Usage:   "Cron expression for the reminder scan",
				Value:   defaultSchedule,
				Sources: cli.EnvVars("REMINDER_SCHEDULE"),
			},
			&cli.DurationFlag{
				Name:    "notice-window",
				Usage:   "How far ahead of a due date reminders start",
				Value:   72 * time.Hour,
				Sources: cli.EnvVars("REMINDER_NOTICE_WINDOW"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (json, text)",
				Value:   "json",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))

			logger.InfoContext(ctx, "Initializing reminder worker",
				"schedule", command.String("schedule"),
				"notice_window", command.Duration("notice-window"))

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "intake-reminders", logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			reminders := services.NewReminders(persistence, eventBus, command.Duration("notice-window"), logger)

			scheduler := cron.New()

			_, err = scheduler.AddFunc(command.String("schedule"), func() {
				if _, err := reminders.Scan(ctx); err != nil {
					logger.ErrorContext(ctx, "Reminder scan failed", "error", err)
				}
			})
			if err != nil {
				return err
			}

			scheduler.Start()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			logger.InfoContext(ctx, "Shutting down reminder worker")
			<-scheduler.Stop().Done()

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
