package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"huchu/internal/domain"
)

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nulStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertLender(ctx context.Context, l domain.LenderRecord) error {
	cats, _ := json.Marshal(l.Categories)
	regions, _ := json.Marshal(l.Regions)
	extra, _ := json.Marshal(l.ExtraConditions)
	negative, _ := json.Marshal(l.Negative)
	financial, _ := json.Marshal(l.Financial)

	_, err := r.db.ExecContext(ctx, upsertLenderSQL,
		l.ID,
		l.DisplayName,
		l.Active,
		l.Partner,
		string(cats),
		string(regions),
		string(extra),
		string(negative),
		string(financial),
		valInt(l.DisplayOrder),
		nulStr(l.Channels.Phone),
		nulStr(l.Channels.MessagingURL),
	)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, source string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, source, status, reason)
	return err
}

func (r *Repo) ListLenders(ctx context.Context) ([]domain.LenderRecord, error) {
	rows, err := r.db.QueryContext(ctx, listLendersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LenderRecord
	for rows.Next() {
		var (
			l          domain.LenderRecord
			cats       []byte
			regions    []byte
			extra      []byte
			negative   []byte
			financial  []byte
			order      sql.NullInt64
			phone      sql.NullString
			messaging  sql.NullString
		)
		if err := rows.Scan(
			&l.ID,
			&l.DisplayName,
			&l.Active,
			&l.Partner,
			&cats,
			&regions,
			&extra,
			&negative,
			&financial,
			&order,
			&phone,
			&messaging,
		); err != nil {
			return nil, err
		}

		_ = json.Unmarshal(cats, &l.Categories)
		_ = json.Unmarshal(regions, &l.Regions)
		_ = json.Unmarshal(extra, &l.ExtraConditions)
		_ = json.Unmarshal(negative, &l.Negative)
		_ = json.Unmarshal(financial, &l.Financial)
		if order.Valid {
			n := int(order.Int64)
			l.DisplayOrder = &n
		}
		if phone.Valid {
			l.Channels.Phone = phone.String
		}
		if messaging.Valid {
			l.Channels.MessagingURL = messaging.String
		}

		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
