// Example: joining a room from the command line.
//
// Fetches the relay configuration and a captcha challenge over HTTP, joins
// the room over the signaling websocket, and prints roster, speaking and
// connection-quality changes until interrupted.
//
// Build: go build -o mesh_example example/basic/main.go
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hardchats/mesh_core/pkg/mesh"
	"github.com/hardchats/mesh_core/pkg/signaling"
	"github.com/hardchats/mesh_core/pkg/utils"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "relay base URL")
		wsURL    = flag.String("ws", "", "signaling websocket URL (derived from -url when empty)")
		username = flag.String("user", "gopher", "display name")
		logLevel = flag.String("log", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()
	utils.SetLevel(utils.ParseLogLevel(*logLevel))

	httpClient := signaling.NewHTTPClient(*baseURL)

	// 1. Relay configuration: TURN servers and room limits.
	fmt.Println("Fetching relay configuration...")
	clientCfg, err := httpClient.FetchConfig()
	if err != nil {
		fmt.Printf("config fetch failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  relay version %s, room limit %d users / %d cameras\n",
		clientCfg.Version, clientCfg.MaxUsers, clientCfg.MaxCameras)

	if count, err := httpClient.FetchUserCount(); err == nil {
		fmt.Printf("  %d user(s) currently in the room\n", count)
	}

	// 2. Captcha challenge for the join.
	captcha, err := httpClient.FetchCaptcha()
	if err != nil {
		fmt.Printf("captcha fetch failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Captcha: %s = ", captcha.Question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.TrimSpace(answer)

	// 3. Mesh session wiring.
	cfg := mesh.DefaultConfig()
	cfg.ApplyTurn(clientCfg.Turn)
	cfg.Debug = *logLevel == "debug"

	endpoint := *wsURL
	if endpoint == "" {
		endpoint = "ws" + strings.TrimPrefix(*baseURL, "http") + "/ws"
	}
	transport := signaling.NewTransport(signaling.DefaultTransportConfig(endpoint))
	transport.OnReconnect(func(attempt int, delay time.Duration) {
		fmt.Printf("Connection lost, reconnecting in %v (attempt %d)\n", delay, attempt)
	})
	transport.OnGaveUp(func() {
		fmt.Println("Could not recover the session; please rejoin.")
		os.Exit(1)
	})

	manager, err := mesh.NewManager(cfg, transport, nil)
	if err != nil {
		fmt.Printf("manager setup failed: %v\n", err)
		os.Exit(1)
	}

	manager.SetCallbacks(
		func() {
			roster := manager.Roster()
			names := make([]string, 0, len(roster))
			for _, p := range roster {
				flags := ""
				if !p.MicOn {
					flags += " [muted]"
				}
				if p.CamOn {
					flags += " [cam]"
				}
				if p.ScreenOn {
					flags += " [screen]"
				}
				names = append(names, p.Username+flags)
			}
			fmt.Printf("Roster: %s\n", strings.Join(names, ", "))
		},
		func(id string, sample mesh.HealthSample) {
			fmt.Printf("Quality %s: %s (loss %.1f%%, jitter %.0fms, rtt %.0fms)\n",
				id, sample.Tier, sample.LossPercent, sample.JitterMs, sample.RTTMs)
		},
		func(id string, speaking bool) {
			if speaking {
				fmt.Printf("%s is speaking\n", id)
			}
		},
		func(message string) {
			fmt.Printf("Join rejected: %s\n", message)
			os.Exit(1)
		},
	)

	// 4. Join and run until interrupted.
	fmt.Printf("Joining as %q...\n", *username)
	err = manager.Join(signaling.Credentials{
		Username:      *username,
		CaptchaID:     captcha.ID,
		CaptchaAnswer: answer,
	})
	if err != nil {
		fmt.Printf("join failed: %v\n", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	// 5. Leave cleanly: beacon first, then the in-band leave and teardown.
	fmt.Println("\nLeaving...")
	manager.Leave(httpClient)
}
