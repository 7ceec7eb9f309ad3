// Command liftlog-session runs a workout at the terminal against a liftlog
// server. Edits autosave to a local draft, so a killed session resumes where
// it left off.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/meltforce/liftlog/internal/client"
	"github.com/meltforce/liftlog/internal/draft"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "base URL of the LiftLog API server")
	dayID := flag.Int64("day", 0, "day id to train")
	stateDir := flag.String("state-dir", defaultStateDir(), "directory for the local draft database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *dayID == 0 {
		fmt.Fprintln(os.Stderr, "usage: liftlog-session -day <id> [-server URL] [-state-dir DIR]")
		os.Exit(2)
	}

	drafts, err := draft.Open(*stateDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open draft store:", err)
		os.Exit(1)
	}
	defer func() { _ = drafts.Close() }()

	flow := session.NewFlow(client.New(*serverURL), drafts, log)

	ctx := context.Background()
	sess, err := flow.Start(ctx, *dayID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "start session:", err)
		os.Exit(1)
	}

	if sess.Review {
		fmt.Println("reviewing last workout for", sess.DayName)
	} else {
		fmt.Println("starting", sess.DayName)
	}
	render(sess)
	fmt.Println(`type "help" for commands`)

	repl(ctx, flow, sess)
}

func defaultStateDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "liftlog")
	}
	return "."
}

func repl(ctx context.Context, flow *session.Flow, sess *session.Session) {
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			fmt.Println()
			return
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			printHelp()
		case "show":
			render(sess)
		case "w", "r", "rpe":
			editField(flow, sess, cmd, args)
		case "done", "undo":
			toggleSet(flow, sess, cmd == "done", args)
		case "addset":
			withExercise(sess, args, func(id int64) error {
				return flow.AddSet(ctx, sess, id)
			})
		case "delset":
			delSet(ctx, flow, sess, args)
		case "addex":
			addExercise(ctx, flow, sess, args)
		case "delex":
			withExercise(sess, args, func(id int64) error {
				return flow.RemoveExercise(ctx, sess, id)
			})
		case "rename":
			renameExercise(ctx, flow, sess, args)
		case "move":
			move(ctx, flow, sess, args)
		case "note":
			sess.Notes = strings.Join(args, " ")
			fmt.Println("noted")
		case "finish":
			logID, err := flow.Finish(ctx, sess)
			if err != nil {
				fmt.Println("save failed, draft kept:", err)
				continue
			}
			fmt.Println("workout saved:", logID)
			return
		case "quit", "q":
			fmt.Println("draft kept, resume with the same -day")
			return
		default:
			fmt.Println("unknown command:", cmd)
		}
	}
}

func printHelp() {
	fmt.Print(`  show                      print the session
  w <ex> <set> <weight>     set weight
  r <ex> <set> <reps>       set reps
  rpe <ex> <set> <rpe>      set RPE
  done <ex> <set>           mark set completed
  undo <ex> <set>           unmark set
  addset <ex>               append a set
  delset <ex> <set>         remove a set
  addex <name...>           add an exercise
  delex <ex>                remove an exercise from the plan
  rename <ex> <name...>     rename an exercise
  move <ex> <ex> ...        reorder exercises (all positions)
  note <text...>            set session notes
  finish                    save the workout
  quit                      exit, keeping the draft
`)
}

func render(s *session.Session) {
	for i, ex := range s.Exercises {
		fmt.Printf("%d. %s  (target %d x %s)\n", i+1, ex.Exercise.Name, ex.Exercise.TargetSets, ex.Exercise.TargetReps)
		for _, set := range ex.Sets {
			mark := " "
			if set.Completed {
				mark = "x"
			}
			line := fmt.Sprintf("   [%s] set %d  %s x %s", mark, set.SetNumber, orDash(set.Weight), orDash(set.Reps))
			if set.RPE != "" {
				line += "  @" + set.RPE
			}
			fmt.Println(line)
		}
	}
	if s.Notes != "" {
		fmt.Println("notes:", s.Notes)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// exerciseID maps a 1-based display position to the exercise id.
func exerciseID(s *session.Session, arg string) (int64, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil || pos < 1 || pos > len(s.Exercises) {
		return 0, fmt.Errorf("no exercise %q", arg)
	}
	return s.Exercises[pos-1].Exercise.ID, nil
}

func withExercise(s *session.Session, args []string, fn func(id int64) error) {
	if len(args) < 1 {
		fmt.Println("usage: <cmd> <ex>")
		return
	}
	id, err := exerciseID(s, args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := fn(id); err != nil {
		fmt.Println("error:", err)
	}
}

func editField(flow *session.Flow, s *session.Session, field string, args []string) {
	if len(args) != 3 {
		fmt.Printf("usage: %s <ex> <set> <value>\n", field)
		return
	}
	id, err := exerciseID(s, args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	setIdx, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("set must be a number")
		return
	}
	setIdx-- // display is 1-based

	switch field {
	case "w":
		err = flow.SetWeight(s, id, setIdx, args[2])
	case "r":
		err = flow.SetReps(s, id, setIdx, args[2])
	case "rpe":
		err = flow.SetRPE(s, id, setIdx, args[2])
	}
	if err != nil {
		fmt.Println("error:", err)
	}
}

func toggleSet(flow *session.Flow, s *session.Session, done bool, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: done|undo <ex> <set>")
		return
	}
	id, err := exerciseID(s, args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	setIdx, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("set must be a number")
		return
	}
	if err := flow.SetCompleted(s, id, setIdx-1, done); err != nil {
		fmt.Println("error:", err)
	}
}

func delSet(ctx context.Context, flow *session.Flow, s *session.Session, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: delset <ex> <set>")
		return
	}
	id, err := exerciseID(s, args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	setIdx, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("set must be a number")
		return
	}
	if err := flow.DeleteSet(ctx, s, id, setIdx-1); err != nil {
		fmt.Println("error:", err)
	}
}

func addExercise(ctx context.Context, flow *session.Flow, s *session.Session, args []string) {
	if len(args) == 0 {
		fmt.Println("usage: addex <name...>")
		return
	}
	name := strings.Join(args, " ")
	ex, err := flow.AddExercise(ctx, s, models.NewExercise{Name: name})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("added %s as exercise %d\n", ex.Name, len(s.Exercises))
}

func renameExercise(ctx context.Context, flow *session.Flow, s *session.Session, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: rename <ex> <name...>")
		return
	}
	id, err := exerciseID(s, args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := flow.RenameExercise(ctx, s, id, strings.Join(args[1:], " ")); err != nil {
		fmt.Println("error:", err)
	}
}

func move(ctx context.Context, flow *session.Flow, s *session.Session, args []string) {
	if len(args) != len(s.Exercises) {
		fmt.Printf("usage: move lists all %d positions in their new order\n", len(s.Exercises))
		return
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := exerciseID(s, a)
		if err != nil {
			fmt.Println(err)
			return
		}
		ids = append(ids, id)
	}
	if err := flow.Reorder(ctx, s, ids); err != nil {
		fmt.Println("error:", err)
		return
	}
	render(s)
}
