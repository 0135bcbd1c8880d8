package shell

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"knights/agent"
	"knights/config"
	"knights/engine"
	"knights/game"
	"knights/meta"
	"knights/searcher"
)

//go:embed rules.txt
var rules string

const menuPrompt = "Choose option number: "

// lineReader is the part of readline the shell uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type ShellController struct {
	l   lineReader
	out io.Writer
	cfg *config.Config
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) (*ShellController, func() error, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          menuPrompt,
		HistoryFile:     "/tmp/knights-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, nil, err
	}
	return newShellController(l, l.Stdout(), cfg), l.Close, nil
}

func newShellController(l lineReader, out io.Writer, cfg *config.Config) *ShellController {
	return &ShellController{l: l, out: out, cfg: cfg}
}

// readLine reads one trimmed line. Ctrl-C and EOF both end the session.
func (sc *ShellController) readLine(prompt string) (string, error) {
	sc.l.SetPrompt(prompt)
	line, err := sc.l.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "exit" {
		return "", io.EOF
	}
	return line, nil
}

// Loop runs the main menu until the user quits.
func (sc *ShellController) Loop(ctx context.Context) error {
	for {
		showMessage("Choose option: ", sc.out)
		showMessage("1) Game rules ", sc.out)
		showMessage("2) Presentation of the automatic gameplay (AI vs AI)", sc.out)
		showMessage("3) Normal Gameplay (Player vs AI)", sc.out)

		choice, err := sc.readLine(menuPrompt)
		if errors.Is(err, io.EOF) {
			log.Debug().Msg("exiting readline loop...")
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			io.WriteString(sc.out, rules)
		case "2", "3":
			rows, cols, err := sc.chooseBoardSize()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			err = sc.Play(ctx, rows, cols, choice == "3")
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
		default:
			showMessage("Wrong choice, try again.", sc.out)
		}
	}
}

func (sc *ShellController) chooseBoardSize() (int, int, error) {
	showMessage("Choose the board size", sc.out)
	for i, size := range meta.BoardSizes {
		showMessage(fmt.Sprintf("%d) %dx%d", i+1, size[0], size[1]), sc.out)
	}

	choice, err := sc.readLine(menuPrompt)
	if err != nil {
		return 0, 0, err
	}
	for i, size := range meta.BoardSizes {
		if choice == fmt.Sprint(i+1) {
			return size[0], size[1], nil
		}
	}
	showMessage(fmt.Sprintf("Wrong choice, setting the default board size to %dx%d.", meta.DefaultRows, meta.DefaultCols), sc.out)
	return meta.DefaultRows, meta.DefaultCols, nil
}

// Play runs one game on a rows x cols board and prints it after every move.
// With human set, the user plays player 1 against the AI.
func (sc *ShellController) Play(ctx context.Context, rows, cols int, human bool) error {
	ai := agent.NewSearchAgent(
		searcher.NewNegamax(sc.cfg.SearchOptions()...),
		searcher.Config{Depth: sc.cfg.Depth},
	)
	agents := []agent.Agent{ai, ai}
	if human {
		agents[0] = agent.NewExternalAgent(sc)
	}

	e, err := engine.LocalEngine(rows, cols, agents, engine.OnUpdate(func(u engine.Update) {
		showMessage(fmt.Sprintf("\n%s plays %s", u.Player, u.Move), sc.out)
		Render(sc.out, u.Board)
	}))
	if err != nil {
		return err
	}
	Render(sc.out, e.Board())

	outcome, err := e.Run(ctx)
	if err != nil {
		return err
	}
	showMessage(fmt.Sprintf("\n%s is the winner! %s loses!", outcome.Winner, outcome.Winner.Opponent()), sc.out)
	return nil
}

// ReadMove asks the user for a move.
func (sc *ShellController) ReadMove(_ context.Context, player game.PlayerID, legal []string) (string, error) {
	showMessage(fmt.Sprintf("\nPossible moves: %s", strings.Join(legal, " ")), sc.out)
	return sc.readLine(fmt.Sprintf("%s what do you play ? ", player))
}

func (sc *ShellController) Reject(text string, err error) {
	showMessage(fmt.Sprintf("Invalid move %q: %v", text, err), sc.out)
}
