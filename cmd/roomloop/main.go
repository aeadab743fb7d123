package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/abhi21121211/roomloop-client-sub000/assistant"
	"github.com/abhi21121211/roomloop-client-sub000/auth"
	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/httpapi"
	"github.com/abhi21121211/roomloop-client-sub000/lifecycle"
	"github.com/abhi21121211/roomloop-client-sub000/observability"
	"github.com/abhi21121211/roomloop-client-sub000/repositories"
	"github.com/abhi21121211/roomloop-client-sub000/runtime"
	"github.com/abhi21121211/roomloop-client-sub000/services"
	"github.com/abhi21121211/roomloop-client-sub000/session"
	"github.com/abhi21121211/roomloop-client-sub000/socket"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "roomloop error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the whole client core and manages its lifecycle. Returning
// instead of exiting keeps the defers (badger close, connection close)
// reliable and the wiring testable.
func run() (int, error) {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	localUser, err := auth.LocalUser(config.AccessToken)
	if err != nil {
		return exitConfig, err
	}

	// 2. Durable local state (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	bypassStore := repositories.NewBypassRepository(db, log)

	// 3. Context & signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Transports
	api := httpapi.NewClient(log, config.APIBaseURL, config.AccessToken, config.HTTPTimeout)
	channel := socket.NewChannel(log, config.SocketURL, config.AccessToken, config.EventBufferSize)
	defer func() { _ = channel.Close() }()

	// 5. Core wiring
	synchronizer := session.NewSynchronizer(log, api, channel)
	printer := &consolePrinter{localUser: localUser}
	latencySink := observability.NewLatencySink(log, config.LatencyThreshold)
	router := runtime.NewRouter(log, channel, synchronizer, latencySink, printer)
	binder := session.NewBinder(log, api, router, synchronizer)

	redirected := make(chan domain.RoomID, 1)
	monitor := lifecycle.NewMonitor(log, bypassStore, binder.Refresh,
		func(roomID domain.RoomID) { redirected <- roomID },
		config.LifecyclePollInterval, config.TickInterval, config.CountdownTicks)
	monitor.SetOnTick(func(remaining int) {
		color.Yellow.Printf("Room has ended — leaving in %d... (type /stay to keep viewing)\n", remaining)
	})

	interceptor := assistant.NewInterceptor(log, api, synchronizer, localUser)
	interceptor.RefreshAvailability(ctx)

	service := services.NewRoomService(log, binder, synchronizer, interceptor, monitor)

	// 6. Supervised loops: push reader, router, lifecycle poll
	sup := runtime.NewSupervisor(log, config.RestartInterval)
	sup.Add(channel, router, monitor)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 7. Activate the configured room
	room, err := service.Activate(ctx, domain.RoomID(config.RoomID))
	if err != nil {
		sup.Stop()
		<-supDone
		return exitRuntime, err
	}
	printRoomInfo(room)
	for _, msg := range service.Messages() {
		printer.printMessage(msg)
	}

	// 8. Input loop
	lines := make(chan string)
	go readLines(lines)

	code := eventLoop(ctx, service, lines, redirected)

	// 9. Teardown: leave the room, drain pending assistant flows,
	// stop the supervised workers.
	service.Deactivate(context.Background())
	interceptor.Wait()
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")
	return code, nil
}

func eventLoop(ctx context.Context, service *services.RoomService,
	lines <-chan string, redirected <-chan domain.RoomID) int {
	for {
		select {
		case <-ctx.Done():
			return exitOK
		case roomID := <-redirected:
			color.Red.Printf("Room %s has ended. Leaving.\n", roomID)
			return exitOK
		case line, ok := <-lines:
			if !ok {
				return exitOK
			}
			if done := handleLine(ctx, service, line); done {
				return exitOK
			}
		}
	}
}

func handleLine(ctx context.Context, service *services.RoomService, line string) bool {
	switch {
	case line == "":
		return false
	case line == "/quit":
		return true
	case line == "/stay":
		service.Bypass()
		color.Gray.Println("Staying in the room; you won't be redirected again.")
		return false
	case strings.HasPrefix(line, "/react "):
		emoji := strings.TrimSpace(strings.TrimPrefix(line, "/react "))
		if err := service.React(ctx, emoji); err != nil {
			color.Red.Printf("reaction failed: %v\n", err)
		}
		return false
	default:
		if err := service.Submit(ctx, line); err != nil {
			color.Red.Printf("send failed: %v\n", err)
		}
		return false
	}
}

func readLines(out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}
