package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	sizePrompt = "Enter the size of the Tic-Tac-Toe board (3 or greater): "
	movePrompt = "Enter your move (row and column): "

	invalidSizeMessage   = "Invalid size! Enter an integer of 3 or greater.\n"
	invalidFormatMessage = "Invalid input format! Enter two integers separated by space.\n"
	occupiedMessage      = "Invalid move! Try again.\n"
	tieMessage           = "It's a tie!\n"
)

type State int

const (
	StateAwaitingSize State = iota
	StateAwaitingMove
	StateFinished
)

func (that State) String() string {
	switch that {
	case StateAwaitingSize:
		return "awaiting-size"
	case StateAwaitingMove:
		return "awaiting-move"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

type gameManager interface {
	Start(ctx context.Context, size int, aiFirst bool) (*usecase.Turn, error)
	MakeTurn(ctx context.Context, row, col int) (*usecase.Turn, error)
}

type Options struct {
	// Size skips the size prompt when it is MinSize or greater.
	Size    int
	AIFirst bool
}

// Session is the text front end of one game. Each input line is handled by Handle and
// answered with the text to print, so the whole dialogue runs without a terminal.
type Session struct {
	logger  *slog.Logger
	manager gameManager
	opts    Options

	state State
	game  *entity.Game
}

func NewSession(logger *slog.Logger, manager gameManager, opts Options) *Session {
	return &Session{
		logger:  logger.With("component", "console"),
		manager: manager,
		opts:    opts,
		state:   StateAwaitingSize,
	}
}

func (that *Session) State() State {
	return that.state
}

// Begin starts the game right away when the size is configured. It returns the text to
// print, which is empty when the size still has to be asked for.
func (that *Session) Begin(ctx context.Context) (string, error) {
	if that.state != StateAwaitingSize || that.opts.Size < entity.MinSize {
		return "", nil
	}

	return that.start(ctx, that.opts.Size)
}

// Prompt is printed before reading the next line.
func (that *Session) Prompt() string {
	switch that.state {
	case StateAwaitingSize:
		return sizePrompt
	case StateAwaitingMove:
		return that.game.Board.String() + movePrompt
	default:
		return ""
	}
}

// Handle consumes one line of input and returns the reply to print.
func (that *Session) Handle(ctx context.Context, line string) (string, error) {
	switch that.state {
	case StateAwaitingSize:
		size, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || size < entity.MinSize {
			return invalidSizeMessage, nil
		}

		return that.start(ctx, size)
	case StateAwaitingMove:
		return that.move(ctx, line)
	default:
		return "", nil
	}
}

// Run drives the session until the game ends, the input is exhausted or ctx is done.
func (that *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := that.logger.With("method", "Run")

	reply, err := that.Begin(ctx)
	if err != nil {
		return err
	}

	if _, err = io.WriteString(out, reply); err != nil {
		return fmt.Errorf("failed to write reply: %w", err)
	}

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(readCtx, in)

	for that.state != StateFinished {
		if _, err = io.WriteString(out, that.Prompt()); err != nil {
			return fmt.Errorf("failed to write prompt: %w", err)
		}

		var (
			line string
			ok   bool
		)

		select {
		case <-ctx.Done():
			log.Info("session canceled")
			return nil
		case line, ok = <-lines:
		}

		if !ok {
			log.Info("input closed", "state", that.state.String())
			return nil
		}

		reply, err = that.Handle(ctx, line)
		if err != nil {
			return err
		}

		if _, err = io.WriteString(out, reply); err != nil {
			return fmt.Errorf("failed to write reply: %w", err)
		}
	}

	return nil
}

func (that *Session) start(ctx context.Context, size int) (string, error) {
	turn, err := that.manager.Start(ctx, size, that.opts.AIFirst)
	if err != nil {
		return "", fmt.Errorf("failed to start game: %w", err)
	}

	that.game = turn.Game
	that.state = StateAwaitingMove

	if turn.AI == nil {
		return "", nil
	}

	return entity.NewBoard(size).String() + aiMessage(*turn.AI), nil
}

func (that *Session) move(ctx context.Context, line string) (string, error) {
	row, col, ok := parseMove(line)
	if !ok {
		return invalidFormatMessage, nil
	}

	size := that.game.Board.Size()
	if !that.game.Board.InRange(row, col) {
		return fmt.Sprintf("Invalid move! Please enter values between 0 and %d.\n", size-1), nil
	}

	turn, err := that.manager.MakeTurn(ctx, row, col)
	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		return occupiedMessage, nil
	case err != nil:
		return "", fmt.Errorf("failed to make turn: %w", err)
	}

	var reply strings.Builder

	if turn.AI != nil {
		// the board between the human move and the AI reply
		between := that.game.Board.Clone()
		if err = between.UndoMove(turn.AI.Row, turn.AI.Col); err != nil {
			return "", fmt.Errorf("failed to render board: %w", err)
		}

		reply.WriteString(between.String())
		reply.WriteString(aiMessage(*turn.AI))
	}

	if that.game.IsFinished() {
		that.state = StateFinished
		reply.WriteString(resultMessage(that.game))
		reply.WriteString(that.game.Board.String())
	}

	return reply.String(), nil
}

func parseMove(line string) (int, int, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, false
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}

	return row, col, true
}

func aiMessage(move entity.Move) string {
	return "AI plays " + move.String() + "\n"
}

func resultMessage(game *entity.Game) string {
	if game.IsTie() {
		return tieMessage
	}

	return game.Winner.String() + " wins!\n"
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}
