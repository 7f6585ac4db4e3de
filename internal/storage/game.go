package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// resultOngoing matches core.StateOngoing and the schema default
const resultOngoing = "ongoing"

const gameColumns = `game_id, initial_fen,
		white_player_id, white_name, white_user_id,
		black_player_id, black_name, black_user_id,
		result, reason, start_time_utc, end_time_utc`

// RecordNewGame asynchronously records a new game. An empty result is
// stored as ongoing.
func (s *Store) RecordNewGame(record GameRecord) error {
	if record.Result == "" {
		record.Result = resultOngoing
	}
	s.enqueue("game record", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, initial_fen,
			white_player_id, white_name, white_user_id,
			black_player_id, black_name, black_user_id,
			result, reason, start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.InitialFEN,
			record.WhitePlayerID, record.WhiteName, record.WhiteUserID,
			record.BlackPlayerID, record.BlackName, record.BlackUserID,
			record.Result, record.Reason, record.StartTimeUTC,
		)
		return err
	})
	return nil
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) error {
	s.enqueue("move record", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, move, fen_after_move, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.Move,
			record.FENAfterMove, record.PlayerColor, record.MoveTimeUTC,
		)
		return err
	})
	return nil
}

// DeleteUndoneMoves asynchronously deletes moves after undo
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) error {
	s.enqueue("undo operation", func(tx *sql.Tx) error {
		query := `DELETE FROM moves WHERE game_id = ? AND move_number > ?`
		_, err := tx.Exec(query, gameID, afterMoveNumber)
		return err
	})
	return nil
}

// RecordResult asynchronously stores the game outcome. An ongoing result
// clears the end time, which happens when an undo reopens a finished game.
func (s *Store) RecordResult(gameID, result, reason string, at time.Time) error {
	s.enqueue("result update", func(tx *sql.Tx) error {
		var end any
		if result != resultOngoing {
			end = at
		}
		query := `UPDATE games SET result = ?, reason = ?, end_time_utc = ? WHERE game_id = ?`
		_, err := tx.Exec(query, result, reason, end, gameID)
		return err
	})
	return nil
}

// QueryGames retrieves games with optional filtering. The player filter
// matches either a per-game player ID or a bound user ID.
func (s *Store) QueryGames(gameID, playerID string) ([]GameRecord, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if playerID != "" && playerID != "*" {
		query += ` AND (white_player_id = ? OR black_player_id = ?
			OR white_user_id = ? OR black_user_id = ?)`
		args = append(args, playerID, playerID, playerID, playerID)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		err := rows.Scan(
			&g.GameID, &g.InitialFEN,
			&g.WhitePlayerID, &g.WhiteName, &g.WhiteUserID,
			&g.BlackPlayerID, &g.BlackName, &g.BlackUserID,
			&g.Result, &g.Reason, &g.StartTimeUTC, &g.EndTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// GameMoves returns the recorded moves of a game in play order
func (s *Store) GameMoves(gameID string) ([]MoveRecord, error) {
	query := `SELECT move_id, game_id, move_number, move, fen_after_move, player_color, move_time_utc
		FROM moves WHERE game_id = ? ORDER BY move_number`

	rows, err := s.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(&m.MoveID, &m.GameID, &m.MoveNumber, &m.Move,
			&m.FENAfterMove, &m.PlayerColor, &m.MoveTimeUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, rows.Err()
}
