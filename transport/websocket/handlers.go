package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/feedback"
)

var resetCue = feedback.ForReset(false)

func (that *Server) handleNewGame(ctx context.Context, c *client, _ Payload) error {
	log := that.logger.With("method", "handleNewGame")

	game, err := that.games.NewGame(ctx)
	if err != nil {
		that.sendError(c, actionNew, "failed to create a new game")
		return fmt.Errorf("failed to create game: %w", err)
	}

	that.subscribe(game.ID, c)

	if err = c.send(actionNew, Payload{Game: game, Cue: feedback.ForReset(true)}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("game created", "gameID", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, c *client, payload Payload) error {
	game, ok := that.loadGame(ctx, c, actionJoin, payload)
	if !ok {
		return nil
	}

	that.subscribe(game.ID, c)

	if err := c.send(actionJoin, Payload{Game: game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.logger.Info("client joined game", "method", "handleJoinGame", "gameID", game.ID)

	return nil
}

func (that *Server) handleGameState(ctx context.Context, c *client, payload Payload) error {
	game, ok := that.loadGame(ctx, c, actionState, payload)
	if !ok {
		return nil
	}

	if err := c.send(actionState, Payload{Game: game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, payload Payload) error {
	log := that.logger.With("method", "handleGameTurn", "gameID", payload.GameID)

	if payload.GameID == "" {
		that.sendError(c, actionTurn, "game_id is required")
		return nil
	}

	if payload.Row == nil || payload.Col == nil {
		that.sendError(c, actionTurn, "row and col are required")
		return nil
	}

	game, result, err := that.games.Play(ctx, payload.GameID, *payload.Row, *payload.Col)
	if err != nil {
		if !isRejectedMove(err) && !errors.Is(err, apperror.ErrGameNotFound) {
			log.Error("failed to make turn", "error", err)
		}

		// rejected moves only concern the sender
		resp := Payload{Game: game, Cue: feedback.ForMove(result, err), Error: reason(err)}
		if sendErr := c.send(actionTurn, resp); sendErr != nil {
			return fmt.Errorf("failed to send response: %w", sendErr)
		}

		return nil
	}

	that.broadcast(game.ID, actionTurn, Payload{
		Game:   game,
		Result: &result,
		Cue:    feedback.ForMove(result, nil),
	})

	log.Debug("player made a turn", "mark", result.Mark)

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, c *client, payload Payload) error {
	if payload.GameID == "" {
		that.sendError(c, actionReset, "game_id is required")
		return nil
	}

	game, err := that.games.Reset(ctx, payload.GameID)
	if err != nil {
		that.sendError(c, actionReset, reason(err))
		return fmt.Errorf("failed to reset game: %w", err)
	}

	that.broadcast(game.ID, actionReset, Payload{Game: game, Cue: resetCue})

	return nil
}

func (that *Server) handleGameLeave(_ context.Context, c *client, payload Payload) error {
	that.unsubscribe(payload.GameID, c)

	if err := c.send(actionLeave, Payload{GameID: payload.GameID}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) loadGame(ctx context.Context, c *client, action string, payload Payload) (*entity.Game, bool) {
	if payload.GameID == "" {
		that.sendError(c, action, "game_id is required")
		return nil, false
	}

	game, err := that.games.Game(ctx, payload.GameID)
	if err != nil {
		if !errors.Is(err, apperror.ErrGameNotFound) {
			that.logger.Error("failed to get game", "gameID", payload.GameID, "error", err)
		}

		that.sendError(c, action, reason(err))
		return nil, false
	}

	return game, true
}

func isRejectedMove(err error) bool {
	return errors.Is(err, apperror.ErrInvalidCoordinate) ||
		errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrGameOver)
}

// reason turns an error into a message safe to show to a client.
func reason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		return apperror.ErrInvalidCoordinate.Error()
	case errors.Is(err, apperror.ErrCellOccupied):
		return apperror.ErrCellOccupied.Error()
	case errors.Is(err, apperror.ErrGameOver):
		return apperror.ErrGameOver.Error()
	case errors.Is(err, apperror.ErrGameNotFound):
		return apperror.ErrGameNotFound.Error()
	default:
		return "internal error"
	}
}
