package mysql

const insertRunSQL = `
INSERT INTO report_runs
  (id, keyword, location_text, formatted_location, places, raw, report, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  formatted_location = VALUES(formatted_location),
  places             = VALUES(places),
  raw                = VALUES(raw),
  report             = VALUES(report)
`

const getRunSQL = `
SELECT id, raw, report, created_at
FROM report_runs
WHERE id = ?
`

// Newest first; matches idx_report_runs_created.
const listRunsSQL = `
SELECT id, keyword, location_text, formatted_location, places, created_at
FROM report_runs
ORDER BY created_at DESC, id DESC
LIMIT ?
`
