package main

import (
	"otabridge/internal/auth"
	authrepo "otabridge/internal/auth/repository"
	"otabridge/internal/events"
	"otabridge/internal/notif/handler"
	"otabridge/internal/notif/validator"
	resrepo "otabridge/internal/reservations/repository"
	"otabridge/internal/reservations/service"
	"otabridge/pkg/app"
	"otabridge/pkg/config"
)

const ServiceName = "otabridge"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting OTA bridge service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	reservationHandler, publisher := initServices(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(reservationHandler, handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (*handler.ReservationHandler, events.Publisher) {
	credentialRepo := authrepo.NewMongoCredentialRepository(cfg)
	tokenProvider := auth.NewService(credentialRepo, cfg)

	reservationRepo := resrepo.NewMongoReservationRepository(cfg)
	roomRepo := resrepo.NewMongoRoomRepository(cfg)
	reconciler := service.NewReconcileService(reservationRepo, roomRepo, cfg)

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}

	notifValidator := validator.NewNotificationValidator(cfg.Log)

	reservationHandler := handler.NewReservationHandler(
		tokenProvider,
		notifValidator,
		reconciler,
		publisher,
		cfg.Log,
	)

	cfg.Log.Info("Reservation pipeline initialized", "database", cfg.MongoDatabaseName)
	return reservationHandler, publisher
}
