/*
Package membership computes gym membership expirations and statuses.

PURPOSE:
  Given when a membership started (or, failing that, when the client's
  account was created) and the plan's billing period, compute the exact
  calendar date the membership runs out and classify it as active,
  expiring soon or expired relative to a reference date.

KEY CONCEPTS:
  - Period:     Closed set of cadences (daily ... annual)
  - Anchor:     Date the period is measured from, tagged with its origin
  - Expiration: Anchor + period, or a tag saying why there is none
  - Status:     active | expiring_soon | expired | unknown, derived on demand
  - Evaluator:  A pinned "today" so a whole list is judged consistently

CALENDAR RULES:
  Month and year arithmetic clamp to the end of the target month:
    2024-01-31 + 1 month  = 2024-02-29
    2025-01-31 + 1 month  = 2025-02-28
    2024-02-29 + 1 year   = 2025-02-28
  All values are calendar dates; time of day never matters.

STATUS RULES:
  daysRemaining <= 0       -> expired (an expiration dated today is expired)
  1 <= daysRemaining <= 5  -> expiring_soon
  otherwise                -> active
  no expiration            -> unknown (never expired)

USAGE:
  exp := membership.Resolve(c.StartDate, c.CreatedAt, c.PeriodLabel)
  ev := membership.NewEvaluator(time.Now())
  switch ev.Status(exp) { ... }

Everything here is pure: no I/O, no globals that change, safe to call from
any goroutine.

SEE ALSO:
  - clients/service.go: list filters and dashboard counts built on this
  - api/handlers.go: HTTP surface
*/
package membership
