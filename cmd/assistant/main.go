package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/assistant"
	"github.com/BruksfildServices01/clinic-scheduler/internal/bootstrap"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file, using environment")
	}

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.Close()

	session := assistant.NewSession(
		assistant.NewOpenAICompleter(cfg.OpenAIKey),
		app.Tools,
		app.Policy,
		assistant.Options{
			Model:            cfg.OpenAIModel,
			PractitionerName: cfg.PractitionerName,
		},
		log.WithField("component", "assistant"),
	)

	fmt.Printf("Assistente: Olá! Sou a assistente virtual de %s. Como posso ajudar hoje?\n", cfg.PractitionerName)

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Você: ")
		if !in.Scan() {
			return
		}
		text := strings.TrimSpace(in.Text())
		if text == "" {
			continue
		}
		if text == "/reset" {
			session.Reset()
			continue
		}

		reply, err := session.Reply(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Error("assistant reply failed")
			fmt.Println("Assistente: Peço desculpas, tive um problema. Poderia repetir, por favor?")
			continue
		}
		fmt.Println("Assistente:", reply)
	}
}
