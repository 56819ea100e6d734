package mysql

// Column names follow the original table: realprice, discountedprice and
// mainimage are lower-case without separators.
const insertTrekSQL = `
INSERT INTO treks
  (name, duration, difficulty, realprice, discountedprice, image, banner, mainimage,
   heading, details, overview, highlight, itinerary)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Explicit order; the listing must not depend on storage order.
const listTreksSQL = `
SELECT id, name, duration, difficulty, realprice, discountedprice, image
FROM treks
ORDER BY id ASC
`

const getTrekSQL = `
SELECT
  id,
  name,
  duration,
  difficulty,
  realprice,
  discountedprice,
  image,
  banner,
  mainimage,
  heading,
  overview,
  highlight,
  details,     -- JSON text {altitude,distance,transportation,meals,bestSeason,trekType}
  itinerary    -- JSON text {dayHighlight,dayExplain}
FROM treks
WHERE id = ?
`

const pingSQL = `SELECT 1`
