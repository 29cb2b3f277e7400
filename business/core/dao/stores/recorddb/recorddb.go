// Package recorddb implements the record store using a sqlite database
// accessed through gorm.
package recorddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/daofund/governance/business/core/dao/record"
)

// Store manages the set of APIs for transaction record access.
type Store struct {
	db *gorm.DB
}

// Open opens the sqlite database at the given path and migrates the
// record tables.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	if err := db.AutoMigrate(&dbProposalTx{}, &dbVoteTx{}); err != nil {
		return nil, fmt.Errorf("migrating record tables: %w", err)
	}

	return &Store{db: db}, nil
}

// =============================================================================
// Proposal records

// AddProposal inserts a new proposal record.
func (s *Store) AddProposal(ctx context.Context, tx record.ProposalTx) (record.ProposalTx, error) {
	db := toDBProposalTx(tx)

	if err := s.db.WithContext(ctx).Create(&db).Error; err != nil {
		return record.ProposalTx{}, fmt.Errorf("inserting proposal record: %w", err)
	}

	return toCoreProposalTx(db), nil
}

// ProposalByTxHash returns the proposal record with the given
// transaction hash.
func (s *Store) ProposalByTxHash(ctx context.Context, txHash string) (record.ProposalTx, error) {
	var db dbProposalTx

	if err := s.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&db).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record.ProposalTx{}, record.ErrNotFound
		}
		return record.ProposalTx{}, fmt.Errorf("querying proposal record: %w", err)
	}

	return toCoreProposalTx(db), nil
}

// ConfirmedProposal returns the confirmed proposal record carrying the
// given on-chain proposal index for a DAO.
func (s *Store) ConfirmedProposal(ctx context.Context, daoID uint64, proposalID uint64) (record.ProposalTx, error) {
	var db dbProposalTx

	err := s.db.WithContext(ctx).
		Where("dao_id = ? AND proposal_id = ? AND status = ?", daoID, proposalID, string(record.StatusConfirmed)).
		First(&db).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record.ProposalTx{}, record.ErrNotFound
		}
		return record.ProposalTx{}, fmt.Errorf("querying confirmed proposal record: %w", err)
	}

	return toCoreProposalTx(db), nil
}

// UpdateProposalStatus transitions a proposal record to a terminal
// status. The update only applies while the record is still SENT; the
// result reports whether the row changed.
func (s *Store) UpdateProposalStatus(ctx context.Context, txHash string, to record.Status, proposalID *uint64) (bool, error) {
	fields := map[string]any{
		"status": string(to),
	}
	if proposalID != nil {
		fields["proposal_id"] = *proposalID
	}

	result := s.db.WithContext(ctx).
		Model(&dbProposalTx{}).
		Where("tx_hash = ? AND status = ?", txHash, string(record.StatusSent)).
		Updates(fields)

	if result.Error != nil {
		return false, fmt.Errorf("updating proposal record: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// SentProposals returns every proposal record still in flight.
func (s *Store) SentProposals(ctx context.Context) ([]record.ProposalTx, error) {
	var dbs []dbProposalTx

	if err := s.db.WithContext(ctx).Where("status = ?", string(record.StatusSent)).Find(&dbs).Error; err != nil {
		return nil, fmt.Errorf("querying sent proposal records: %w", err)
	}

	return toCoreProposalTxs(dbs), nil
}

// SentProposalsByDAO returns the in-flight proposal records for a DAO.
func (s *Store) SentProposalsByDAO(ctx context.Context, daoID uint64) ([]record.ProposalTx, error) {
	var dbs []dbProposalTx

	if err := s.db.WithContext(ctx).Where("status = ? AND dao_id = ?", string(record.StatusSent), daoID).Find(&dbs).Error; err != nil {
		return nil, fmt.Errorf("querying sent proposal records: %w", err)
	}

	return toCoreProposalTxs(dbs), nil
}

// =============================================================================
// Vote records

// AddVote inserts a new vote record.
func (s *Store) AddVote(ctx context.Context, tx record.VoteTx) (record.VoteTx, error) {
	db := toDBVoteTx(tx)

	if err := s.db.WithContext(ctx).Create(&db).Error; err != nil {
		return record.VoteTx{}, fmt.Errorf("inserting vote record: %w", err)
	}

	return toCoreVoteTx(db), nil
}

// VoteByTxHash returns the vote record with the given transaction hash.
func (s *Store) VoteByTxHash(ctx context.Context, txHash string) (record.VoteTx, error) {
	var db dbVoteTx

	if err := s.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&db).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record.VoteTx{}, record.ErrNotFound
		}
		return record.VoteTx{}, fmt.Errorf("querying vote record: %w", err)
	}

	return toCoreVoteTx(db), nil
}

// UpdateVoteStatus transitions a vote record to a terminal status. The
// update only applies while the record is still SENT; the result reports
// whether the row changed.
func (s *Store) UpdateVoteStatus(ctx context.Context, txHash string, to record.Status) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&dbVoteTx{}).
		Where("tx_hash = ? AND status = ?", txHash, string(record.StatusSent)).
		Update("status", string(to))

	if result.Error != nil {
		return false, fmt.Errorf("updating vote record: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// SentVotes returns every vote record still in flight.
func (s *Store) SentVotes(ctx context.Context) ([]record.VoteTx, error) {
	var dbs []dbVoteTx

	if err := s.db.WithContext(ctx).Where("status = ?", string(record.StatusSent)).Find(&dbs).Error; err != nil {
		return nil, fmt.Errorf("querying sent vote records: %w", err)
	}

	return toCoreVoteTxs(dbs), nil
}

// SentVotesByDAO returns the in-flight vote records for a DAO.
func (s *Store) SentVotesByDAO(ctx context.Context, daoID uint64) ([]record.VoteTx, error) {
	var dbs []dbVoteTx

	if err := s.db.WithContext(ctx).Where("status = ? AND dao_id = ?", string(record.StatusSent), daoID).Find(&dbs).Error; err != nil {
		return nil, fmt.Errorf("querying sent vote records: %w", err)
	}

	return toCoreVoteTxs(dbs), nil
}
