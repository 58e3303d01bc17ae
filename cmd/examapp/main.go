package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/raido/mockexam/internal/domain/questionbank"
	"github.com/raido/mockexam/internal/infrastructure/config"
	"github.com/raido/mockexam/internal/store"

	examsession "github.com/raido/mockexam/internal/domain/exam_session"
	quizsession "github.com/raido/mockexam/internal/domain/quiz_session"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	rows, err := questionbank.LoadFiles(cfg.BankPaths, cfg.LoadWorkers)
	if err != nil {
		logger.Error("failed to load question bank", "error", err)
		os.Exit(1)
	}
	bank := questionbank.NewFromRows(rows)
	if len(bank.Questions) == 0 {
		logger.Error("question bank is empty", "paths", cfg.BankPaths)
		os.Exit(1)
	}
	logger.Info("question bank loaded", "questions", len(bank.Questions), "levels", len(bank.Levels))

	attempts, err := store.NewSQLite(cfg.HistoryDBPath)
	if err != nil {
		logger.Error("failed to open history database", "error", err, "path", cfg.HistoryDBPath)
		os.Exit(1)
	}
	defer attempts.Close()

	a := &app{
		bank:     bank,
		attempts: attempts,
		logger:   logger,
		in:       bufio.NewScanner(os.Stdin),
	}
	a.run()
}

type app struct {
	bank     *questionbank.QuestionBank
	attempts *store.SQLiteStore
	logger   *slog.Logger
	in       *bufio.Scanner
}

func (a *app) run() {
	for {
		fmt.Println()
		fmt.Println("[1] practice  [2] mock exam  [3] history  [q] quit")
		switch a.readLine("> ") {
		case "1":
			a.runQuiz()
		case "2":
			a.runExam()
		case "3":
			a.showHistory()
		case "q", "":
			return
		}
	}
}

func (a *app) readLine(prompt string) string {
	fmt.Print(prompt)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) chooseLevel() (questionbank.Level, bool) {
	fmt.Println("levels:")
	for i, level := range a.bank.Levels {
		fmt.Printf("  [%d] %s (%d questions)\n", i+1, level, len(a.bank.PoolForLevel(level)))
	}
	n, err := strconv.Atoi(a.readLine("level> "))
	if err != nil || n < 1 || n > len(a.bank.Levels) {
		return "", false
	}
	return a.bank.Levels[n-1], true
}

func (a *app) runQuiz() {
	level, ok := a.chooseLevel()
	if !ok {
		return
	}

	session := quizsession.NewSession(a.bank, nil)
	session.SetLevel(level)

	for {
		question := session.CurrentQuestion()
		if question == nil {
			fmt.Println("no questions at this level")
			return
		}

		printQuestion(question)
		for _, wrong := range session.WrongChoices() {
			fmt.Printf("  already tried: (%d)\n", wrong)
		}
		if session.IsCorrect() {
			fmt.Println("  answered correctly")
		}
		if session.RevealExplanation() && question.Explanation != "" {
			fmt.Println("  explanation:", question.Explanation)
		}

		progress := session.Progress()
		fmt.Printf("progress: %d/%d (%d%%)\n", progress.Asked, progress.Total, progress.Completion)

		input := a.readLine("answer (choice / n=next / b=back / q=menu)> ")
		switch input {
		case "q", "":
			return
		case "n":
			session.PickNextQuestion()
		case "b":
			session.GoToPreviousQuestion()
		default:
			choice, err := strconv.Atoi(input)
			if err != nil {
				continue
			}
			if session.SubmitAnswer(choice) {
				fmt.Println("correct!")
			} else {
				fmt.Println("wrong, try again")
			}
		}
	}
}

func (a *app) runExam() {
	level, ok := a.chooseLevel()
	if !ok {
		return
	}

	session := examsession.NewSession(a.bank, a.attempts, nil, a.logger)
	if err := session.Start(level); err != nil {
		fmt.Println("cannot start exam:", err)
		return
	}

	cfg := session.Config()
	fmt.Printf("exam started: %d questions, %d required to pass\n", cfg.Total, cfg.Required)

	for session.CurrentIndex() < session.TotalQuestions() {
		question := session.CurrentQuestion()
		fmt.Printf("\n[%d/%d] ", session.CurrentIndex()+1, session.TotalQuestions())
		printQuestion(question)

		input := a.readLine("answer (choice / enter=skip / q=abort)> ")
		if input == "q" {
			session.Reset()
			return
		}
		if choice, err := strconv.Atoi(input); err == nil {
			session.SelectAnswer(choice)
		}
		if session.CurrentIndex() == session.TotalQuestions()-1 {
			break
		}
		session.GoNext()
	}

	results := session.Submit(context.Background())
	if results == nil {
		return
	}

	verdict := "FAILED"
	if results.Passed {
		verdict = "PASSED"
	}
	fmt.Printf("\n%s — %d correct, %d incorrect (required %d)\n",
		verdict, results.Correct, results.Incorrect, results.Required)
	if !results.Saved {
		fmt.Println("note: this attempt was not saved")
	}
}

func (a *app) showHistory() {
	attempts, err := a.attempts.ListAttempts(context.Background())
	if err != nil {
		a.logger.Error("failed to list attempts", "error", err)
		return
	}
	if len(attempts) == 0 {
		fmt.Println("no recorded attempts")
		return
	}
	for _, attempt := range attempts {
		verdict := "failed"
		if attempt.Passed {
			verdict = "passed"
		}
		fmt.Printf("%s  level %-4s %3d/%d correct  %s\n",
			attempt.FinishedAt.Format("2006-01-02 15:04"),
			attempt.Level, attempt.Correct, attempt.Total, verdict)
	}
}

func printQuestion(q *questionbank.Question) {
	fmt.Println(q.Prompt)
	for _, choice := range q.Choices {
		fmt.Printf("  (%d) %s\n", choice.Index, choice.Text)
	}
}
