package services

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/curaious/finca/internal/api/authenticator"
	"github.com/curaious/finca/internal/clock"
	"github.com/curaious/finca/internal/config"
	"github.com/curaious/finca/internal/db"
	"github.com/curaious/finca/internal/services/authorization"
	"github.com/curaious/finca/internal/services/collaborator"
	"github.com/curaious/finca/internal/services/detection"
	"github.com/curaious/finca/internal/services/farm"
	"github.com/curaious/finca/internal/services/flowering"
	"github.com/curaious/finca/internal/services/invitation"
	"github.com/curaious/finca/internal/services/membership"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/permission"
	"github.com/curaious/finca/internal/services/plot"
	"github.com/curaious/finca/internal/services/reminder"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/services/task"
	"github.com/curaious/finca/internal/services/transaction"
	"github.com/curaious/finca/internal/services/user"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Services struct {
	Status       *status.StatusService
	Permission   *permission.PermissionService
	Membership   *membership.MembershipService
	Guard        *authorization.Guard
	Notification *notification.NotificationService
	User         *user.UserService
	Farm         *farm.FarmService
	Plot         *plot.PlotService
	Collaborator *collaborator.CollaboratorService
	Invitation   *invitation.InvitationService
	Task         *task.TaskService
	Flowering    *flowering.FloweringService
	Transaction  *transaction.TransactionService
	Detection    *detection.DetectionService
	Reminder     *reminder.ReminderService

	DB    *sqlx.DB
	Redis *redis.Client
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     conf.REDIS_ADDR,
		DB:       conf.REDIS_DB,
		Password: conf.REDIS_PASSWORD,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	sessions, err := authenticator.New(conf)
	if err != nil {
		log.Fatal(err)
	}

	var images detection.ImageStore
	if conf.S3_BUCKET != "" {
		store, err := detection.NewS3ImageStore(context.Background(), detection.S3Config{
			Bucket:          conf.S3_BUCKET,
			Region:          conf.S3_REGION,
			Endpoint:        conf.S3_ENDPOINT,
			AccessKeyID:     conf.S3_ACCESS_KEY_ID,
			SecretAccessKey: conf.S3_SECRET_ACCESS_KEY,
		})
		if err != nil {
			log.Fatalf("failed to create image store: %v", err)
		}
		images = store
		slog.Info("Detection images stored in S3", slog.String("bucket", conf.S3_BUCKET))
	}
	if conf.CLASSIFIER_URL == "" {
		slog.Warn("CLASSIFIER_URL is not set, detections will fail")
	}

	return newServices(dbconn, redisClient, sessions, images, conf, clock.Real())
}

func newServices(dbconn *sqlx.DB, redisClient *redis.Client, sessions user.Sessions, images detection.ImageStore, conf *config.Config, clk clock.Clock) *Services {
	loc := conf.Location()

	statusSvc := status.NewStatusService(status.NewStatusRepo(dbconn))
	permissionSvc := permission.NewPermissionService(permission.NewPermissionRepo(dbconn))
	membershipSvc := membership.NewMembershipService(membership.NewMembershipRepo(dbconn), statusSvc)
	guard := authorization.NewGuard(membershipSvc, permissionSvc)

	notificationSvc := notification.NewNotificationService(
		notification.NewNotificationRepo(dbconn),
		statusSvc,
		notification.NewRedisPusher(redisClient, conf.NOTIFICATION_CHANNEL),
		conf.PUSH_TIMEOUT,
	)

	userSvc := user.NewUserService(
		user.NewUserRepo(dbconn),
		statusSvc,
		user.NewRedisTokenStore(redisClient, ""),
		sessions,
		user.NewRedisMailer(redisClient, conf.MAIL_CHANNEL),
		user.Options{PasswordResetTTL: conf.PASSWORD_RESET_TTL, VerificationTTL: conf.VERIFICATION_TTL},
	)

	farmSvc := farm.NewFarmService(farm.NewFarmRepo(dbconn), statusSvc, guard, permissionSvc)
	plotSvc := plot.NewPlotService(plot.NewPlotRepo(dbconn), statusSvc, guard)
	taskSvc := task.NewTaskService(task.NewTaskRepo(dbconn), statusSvc, guard, plotSvc, notificationSvc, clk, loc)

	return &Services{
		Status:       statusSvc,
		Permission:   permissionSvc,
		Membership:   membershipSvc,
		Guard:        guard,
		Notification: notificationSvc,
		User:         userSvc,
		Farm:         farmSvc,
		Plot:         plotSvc,
		Collaborator: collaborator.NewCollaboratorService(guard, membershipSvc, permissionSvc, notificationSvc),
		Invitation: invitation.NewInvitationService(
			invitation.NewInvitationRepo(dbconn), statusSvc, guard, permissionSvc, membershipSvc, farmSvc, userSvc, notificationSvc,
		),
		Task:        taskSvc,
		Flowering:   flowering.NewFloweringService(flowering.NewFloweringRepo(dbconn), statusSvc, guard, plotSvc, clk, loc),
		Transaction: transaction.NewTransactionService(transaction.NewTransactionRepo(dbconn), statusSvc, guard, plotSvc),
		Detection: detection.NewDetectionService(
			detection.NewDetectionRepo(dbconn), statusSvc, guard, plotSvc,
			detection.NewHTTPClassifier(conf.CLASSIFIER_URL, conf.CLASSIFIER_TIMEOUT), images,
		),
		Reminder: reminder.NewReminderService(taskSvc, notificationSvc, clk, loc),

		DB:    dbconn,
		Redis: redisClient,
	}
}

// Close releases the database and redis connections
func (s *Services) Close() {
	if err := s.Redis.Close(); err != nil {
		slog.Warn("Failed to close redis client", slog.Any("error", err))
	}
	if err := s.DB.Close(); err != nil {
		slog.Warn("Failed to close database", slog.Any("error", err))
	}
}

// Ping checks both backing stores within timeout
func (s *Services) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		return err
	}
	return s.Redis.Ping(ctx).Err()
}
