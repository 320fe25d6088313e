package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prostudia/examclient/internal/api"
	"github.com/prostudia/examclient/internal/config"
	"github.com/prostudia/examclient/internal/database"
	"github.com/prostudia/examclient/internal/logger"
	"github.com/prostudia/examclient/internal/model"
	"github.com/prostudia/examclient/internal/session"
	"github.com/prostudia/examclient/internal/store"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Choose Deadline Store ─────────────────────────────────────────
	var st store.Store
	switch cfg.StoreBackend {
	case "redis":
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		st = store.NewRedisStore(ctx, rdb)
	case "memory":
		st = store.NewMemoryStore()
	default:
		fs, err := store.NewFileStore(cfg.StorePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open state file")
		}
		st = fs
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, log)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Take a Test ===")

	// ─── CLI Input ─────────────────────────────────────────────────────
	fmt.Print("Student ID: ")
	idLine, _ := reader.ReadString('\n')
	studentID, err := strconv.ParseInt(strings.TrimSpace(idLine), 10, 64)
	if err != nil || studentID <= 0 {
		fmt.Println("Error: a numeric student ID is required")
		return
	}

	fmt.Print("Test passcode: ")
	bytePasscode, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading passcode")
		return
	}
	passcode := strings.TrimSpace(string(bytePasscode))
	if passcode == "" {
		fmt.Println("Error: passcode is required")
		return
	}

	// ─── Verify Test ───────────────────────────────────────────────────
	test, err := client.VerifyPasscode(ctx, passcode)
	if err != nil {
		if errors.Is(err, api.ErrTestNotFound) {
			fmt.Println("No test matches that passcode.")
		} else {
			fmt.Printf("Could not reach the exam service: %v\n", err)
		}
		return
	}

	fmt.Printf("\n%s\n", test.Title)
	if test.Description != "" {
		fmt.Println(test.Description)
	}
	fmt.Printf("%d questions, %d minutes, %d points total\n", len(test.Questions), test.Duration, test.TotalPoints())
	fmt.Println("The timer starts (or resumes) as soon as you confirm. It cannot be paused.")
	fmt.Print("Start now? [y/N]: ")
	confirm, _ := reader.ReadString('\n')
	if !strings.EqualFold(strings.TrimSpace(confirm), "y") {
		return
	}

	// ─── Start Session ─────────────────────────────────────────────────
	ctrl := session.NewController(cfg, client, st, session.SystemClock(), log)

	sess, err := ctrl.Start(test.ID, studentID, test.Duration)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start session")
	}

	if restored := ctrl.RestoreProgress(ctx); restored > 0 {
		fmt.Printf("Restored %d previously saved answer(s).\n", restored)
	}

	go ctrl.Run(ctx)

	fmt.Printf("\nTime remaining: %s\n", formatRemaining(sess.Remaining(time.Now())))

	// ─── Question Loop ─────────────────────────────────────────────────
	for i := range test.Questions {
		if ctrl.Status() != model.SessionStatusInProgress {
			break
		}
		askQuestion(reader, ctrl, &test.Questions[i], i)
	}

	// Time may have expired while the student was typing.
	if ctrl.Status() == model.SessionStatusSubmitted {
		fmt.Println("\nTime is up — your answers were submitted automatically.")
		return
	}

	// ─── Manual Submit ─────────────────────────────────────────────────
	fmt.Printf("\n%d of %d questions answered. Submitting ends the attempt for good.\n",
		len(ctrl.Session().Answers), len(test.Questions))

	for attempt := 1; ; attempt++ {
		fmt.Print("Submit now? [y/N]: ")
		line, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(line), "y") {
			if ctrl.Status() == model.SessionStatusInProgress {
				fmt.Println("Waiting — the test auto-submits when time runs out.")
				<-ctrl.Done()
				// Give the automatic submission a moment to finish.
				time.Sleep(time.Second)
				fmt.Println("Time is up — your answers were submitted automatically.")
				return
			}
			continue
		}

		if err := ctrl.Submit(ctx, true); err != nil {
			if attempt >= cfg.SubmitRetries {
				fmt.Printf("Submission failed after %d attempts: %v\n", attempt, err)
				fmt.Println("Your auto-saved answers remain on the server.")
				return
			}
			fmt.Printf("Submission failed (%v). Please try again.\n", err)
			continue
		}
		break
	}

	fmt.Println("\nTest submitted successfully. Your answers have been saved.")
	fmt.Printf("Submitted at: %s\n", time.Now().Format(time.RFC1123))
}

// askQuestion renders one question and records the student's answer.
// Empty input leaves the question unanswered (or keeps a restored answer).
func askQuestion(reader *bufio.Reader, ctrl *session.Controller, q *model.Question, index int) {
	fmt.Printf("\n[%d] (%d pts) %s\n", index+1, q.Points, q.Text)

	switch q.Type {
	case model.QuestionTypeMCQ:
		for i, opt := range q.Options {
			fmt.Printf("  %c. %s\n", 'A'+i, opt)
		}
		fmt.Print("Answer (letter): ")
	case model.QuestionTypeTrueFalse:
		fmt.Print("Answer (true/false): ")
	default:
		fmt.Print("Answer: ")
	}

	if current, ok := ctrl.Session().Answers[q.ID]; ok {
		fmt.Printf("[current: %s] ", current)
	}

	line, _ := reader.ReadString('\n')
	answer := strings.TrimSpace(line)
	if answer == "" {
		return
	}

	if err := ctrl.RecordAnswer(q.ID, answer); err != nil {
		fmt.Println("The attempt has already been submitted; answer not recorded.")
	}
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
