package mysql

const upsertLenderSQL = `
INSERT INTO lenders
  (id, display_name, active, partner, categories, regions, extra_conditions,
   negative_flags, financial, display_order, phone, messaging_url)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  display_name     = VALUES(display_name),
  active           = VALUES(active),
  partner          = VALUES(partner),
  categories       = VALUES(categories),
  regions          = VALUES(regions),
  extra_conditions = VALUES(extra_conditions),
  negative_flags   = VALUES(negative_flags),
  financial        = VALUES(financial),
  display_order    = VALUES(display_order),
  phone            = VALUES(phone),
  messaging_url    = VALUES(messaging_url),
  updated_at       = CURRENT_TIMESTAMP
`

const insertMissSQL = `
INSERT INTO sync_misses (source, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// The whole dataset is one snapshot; ordering here is storage order only,
// presentation ordering (partner, display_order, collation) happens in the
// matching layer.
const listLendersSQL = `
SELECT
  id,
  display_name,
  active,
  partner,
  categories,
  regions,
  extra_conditions,
  negative_flags,
  financial,
  display_order,
  phone,
  messaging_url
FROM lenders
ORDER BY id
`
