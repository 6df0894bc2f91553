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
	"github.com/rocketscienceinc/tictactoe-engine/internal/feedback"
	"github.com/rocketscienceinc/tictactoe-engine/internal/render"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var ErrMalformedMove = errors.New("expected a move as \"row col\"")

const (
	commandQuit  = "quit"
	commandReset = "reset"
	commandHelp  = "help"
)

const helpText = `enter a move as "row col" (0-2), "reset" to start over, "quit" to leave`

// Console plays one local game on a terminal. Finished games start over right away.
type Console struct {
	logger *slog.Logger
	engine *tictactoe.Engine

	in  io.Reader
	out io.Writer
}

func New(logger *slog.Logger, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger: logger.With("component", "console"),
		engine: tictactoe.NewEngine(),
		in:     in,
		out:    out,
	}
}

// Run reads commands until quit, end of input or ctx is done.
func (that *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		var err error

		// readErr is filled before lines is closed
		defer func() {
			readErr <- err
			close(lines)
		}()

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		err = scanner.Err()
	}()

	that.printf("%s\n", helpText)
	if err := that.show(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}

			quit, err := that.handleLine(strings.TrimSpace(line))
			if err != nil {
				return err
			}

			if quit {
				return nil
			}
		}
	}
}

func (that *Console) handleLine(line string) (bool, error) {
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case commandQuit, "exit":
		return true, nil
	case commandHelp:
		that.printf("%s\n", helpText)
		return false, nil
	case commandReset:
		return false, that.reset()
	}

	row, col, err := parseMove(line)
	if err != nil {
		that.printf("%v\n", err)
		return false, nil
	}

	result, err := that.engine.Play(row, col)
	if err != nil {
		that.printf("(%s) %s\n", feedback.ForMove(result, err), describe(err))
		return false, nil
	}

	that.logger.Debug("move accepted", "mark", result.Mark, "row", row, "col", col)
	that.printf("(%s)\n", feedback.ForMove(result, nil))

	if err = that.show(); err != nil {
		return false, err
	}

	if result.Status.IsTerminal() {
		return false, that.reset()
	}

	return false, nil
}

func (that *Console) reset() error {
	that.engine.Reset()
	that.printf("(%s) new game\n", feedback.ForReset(false))

	return that.show()
}

func (that *Console) show() error {
	snapshot := that.engine.Snapshot()

	if err := render.Board(that.out, snapshot.Board, snapshot.Status); err != nil {
		return err
	}

	that.printf("%s\n", render.Outcome(snapshot.Status, snapshot.Turn))

	return nil
}

func (that *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

// parseMove accepts "row col" and "row,col".
func parseMove(line string) (int, int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, ErrMalformedMove
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedMove, err)
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrMalformedMove, err)
	}

	return row, col, nil
}

func describe(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		return "row and col must be between 0 and " + strconv.Itoa(entity.BoardSize-1)
	case errors.Is(err, apperror.ErrCellOccupied):
		return "slot is taken"
	case errors.Is(err, apperror.ErrGameOver):
		return "game is over, type reset"
	default:
		return err.Error()
	}
}
