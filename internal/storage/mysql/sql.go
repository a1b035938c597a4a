package mysql

// Schema kept here so the integration test can create it without an external
// migrations directory.
const createApprovalsSQL = `
CREATE TABLE IF NOT EXISTS review_approvals (
  review_id  VARCHAR(64) NOT NULL PRIMARY KEY,
  approved   TINYINT(1)  NOT NULL DEFAULT 0,
  updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

const upsertApprovalSQL = `
INSERT INTO review_approvals (review_id, approved)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  approved   = VALUES(approved),
  updated_at = CURRENT_TIMESTAMP
`

const getApprovalSQL = `SELECT approved FROM review_approvals WHERE review_id = ?`

const snapshotApprovalsSQL = `SELECT review_id, approved FROM review_approvals`
