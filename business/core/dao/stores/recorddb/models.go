package recorddb

import (
	"time"

	"github.com/daofund/governance/business/core/dao/record"
)

// dbProposalTx represents a row in the proposal_txs table.
type dbProposalTx struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	DAOID        uint64    `gorm:"column:dao_id;index"`
	TxHash       string    `gorm:"column:tx_hash;uniqueIndex;size:66"`
	Status       string    `gorm:"index;size:16"`
	Nonce        uint64    `gorm:"column:nonce"`
	Account      string    `gorm:"size:42;index"`
	ProposalID   *uint64   `gorm:"column:proposal_id"`
	Applicant    string    `gorm:"size:42"`
	Proposer     string    `gorm:"size:42"`
	ProposalType string    `gorm:"size:32"`
	Description  string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by gorm.
func (dbProposalTx) TableName() string {
	return "proposal_txs"
}

// dbVoteTx represents a row in the vote_txs table.
type dbVoteTx struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	DAOID      uint64    `gorm:"column:dao_id;index"`
	TxHash     string    `gorm:"column:tx_hash;uniqueIndex;size:66"`
	Status     string    `gorm:"index;size:16"`
	Nonce      uint64    `gorm:"column:nonce"`
	Account    string    `gorm:"size:42;index"`
	ProposalID uint64    `gorm:"column:proposal_id"`
	Vote       bool      `gorm:"column:vote"`
	Voter      string    `gorm:"size:42"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by gorm.
func (dbVoteTx) TableName() string {
	return "vote_txs"
}

// =============================================================================

func toDBProposalTx(tx record.ProposalTx) dbProposalTx {
	return dbProposalTx{
		ID:           tx.ID,
		DAOID:        tx.DAOID,
		TxHash:       tx.TxHash,
		Status:       string(tx.Status),
		Nonce:        tx.Nonce,
		Account:      tx.Account,
		ProposalID:   tx.ProposalID,
		Applicant:    tx.Applicant,
		Proposer:     tx.Proposer,
		ProposalType: tx.ProposalType,
		Description:  tx.Description,
	}
}

func toCoreProposalTx(db dbProposalTx) record.ProposalTx {
	return record.ProposalTx{
		ID:           db.ID,
		DAOID:        db.DAOID,
		TxHash:       db.TxHash,
		Status:       record.Status(db.Status),
		Nonce:        db.Nonce,
		Account:      db.Account,
		ProposalID:   db.ProposalID,
		Applicant:    db.Applicant,
		Proposer:     db.Proposer,
		ProposalType: db.ProposalType,
		Description:  db.Description,
		CreatedAt:    db.CreatedAt,
		UpdatedAt:    db.UpdatedAt,
	}
}

func toCoreProposalTxs(dbs []dbProposalTx) []record.ProposalTx {
	txs := make([]record.ProposalTx, len(dbs))
	for i, db := range dbs {
		txs[i] = toCoreProposalTx(db)
	}
	return txs
}

func toDBVoteTx(tx record.VoteTx) dbVoteTx {
	return dbVoteTx{
		ID:         tx.ID,
		DAOID:      tx.DAOID,
		TxHash:     tx.TxHash,
		Status:     string(tx.Status),
		Nonce:      tx.Nonce,
		Account:    tx.Account,
		ProposalID: tx.ProposalID,
		Vote:       tx.Vote,
		Voter:      tx.Voter,
	}
}

func toCoreVoteTx(db dbVoteTx) record.VoteTx {
	return record.VoteTx{
		ID:         db.ID,
		DAOID:      db.DAOID,
		TxHash:     db.TxHash,
		Status:     record.Status(db.Status),
		Nonce:      db.Nonce,
		Account:    db.Account,
		ProposalID: db.ProposalID,
		Vote:       db.Vote,
		Voter:      db.Voter,
		CreatedAt:  db.CreatedAt,
		UpdatedAt:  db.UpdatedAt,
	}
}

func toCoreVoteTxs(dbs []dbVoteTx) []record.VoteTx {
	txs := make([]record.VoteTx, len(dbs))
	for i, db := range dbs {
		txs[i] = toCoreVoteTx(db)
	}
	return txs
}
