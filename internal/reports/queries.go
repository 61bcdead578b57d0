package reports

// The report queries. All of them are pure reads over the loaded dataset;
// every ORDER BY ends in a unique key so repeated runs produce identical
// ordered output.
const (
	duplicateCustomersSQL = `
SELECT c.customer_id, c.customer_unique_id, c.city, c.state, d.occurrences
FROM customers c
JOIN (
  SELECT customer_id, COUNT(*) AS occurrences
  FROM customers
  GROUP BY customer_id
  HAVING COUNT(*) > 1
) d ON d.customer_id = c.customer_id
ORDER BY c.customer_id ASC, c.customer_unique_id ASC
`

	salesByCitySQL = `
SELECT c.city, SUM(i.price) AS total_sales
FROM order_items i
JOIN orders o ON o.order_id = i.order_id
JOIN customers c ON c.customer_id = o.customer_id
JOIN products p ON p.product_id = i.product_id
GROUP BY c.city
ORDER BY total_sales DESC, c.city ASC
`

	salesByCategorySQL = `
SELECT pc.product_category_eng AS category, SUM(i.price) AS total_sales
FROM order_items i
JOIN orders o ON o.order_id = i.order_id
JOIN customers c ON c.customer_id = o.customer_id
JOIN products p ON p.product_id = i.product_id
JOIN product_category pc ON pc.product_category_name = p.product_category_name
GROUP BY pc.product_category_eng
ORDER BY total_sales DESC, category ASC
`

	categoryExtremesSQL = `
WITH category_sales AS (
  SELECT pc.product_category_eng AS category, SUM(i.price) AS total_sales
  FROM order_items i
  JOIN orders o ON o.order_id = i.order_id
  JOIN customers c ON c.customer_id = o.customer_id
  JOIN products p ON p.product_id = i.product_id
  JOIN product_category pc ON pc.product_category_name = p.product_category_name
  GROUP BY pc.product_category_eng
),
min_row AS (
  SELECT 'min' AS extreme, category, total_sales
  FROM category_sales
  ORDER BY total_sales ASC, category ASC
  LIMIT 1
),
max_row AS (
  SELECT 'max' AS extreme, category, total_sales
  FROM category_sales
  ORDER BY total_sales DESC, category ASC
  LIMIT 1
)
SELECT * FROM min_row
UNION ALL
SELECT * FROM max_row
`

	ordersByMonthSQL = `
SELECT
  CAST(strftime('%Y', purchase_time) AS INTEGER) AS year,
  CAST(strftime('%m', purchase_time) AS INTEGER) AS month,
  COUNT(*) AS orders
FROM orders
GROUP BY year, month
ORDER BY orders DESC, year ASC, month ASC
`

	avgReviewByCategorySQL = `
SELECT pc.product_category_eng AS category, ROUND(AVG(r.review_score), 2) AS avg_score
FROM order_reviews r
JOIN orders o ON o.order_id = r.order_id
JOIN order_items i ON i.order_id = o.order_id
JOIN products p ON p.product_id = i.product_id
JOIN product_category pc ON pc.product_category_name = p.product_category_name
GROUP BY pc.product_category_eng
ORDER BY avg_score DESC, category ASC
`

	topReviewedPerCategorySQL = `
WITH product_scores AS (
  SELECT pc.product_category_eng AS category, p.product_id, MAX(r.review_score) AS review_score
  FROM order_reviews r
  JOIN order_items i ON i.order_id = r.order_id
  JOIN products p ON p.product_id = i.product_id
  JOIN product_category pc ON pc.product_category_name = p.product_category_name
  GROUP BY pc.product_category_eng, p.product_id
),
ranked AS (
  SELECT category, product_id, review_score,
    ROW_NUMBER() OVER (
      PARTITION BY category
      ORDER BY review_score DESC, product_id ASC
    ) AS rnk
  FROM product_scores
)
SELECT category, product_id, review_score
FROM ranked
WHERE rnk = 1
ORDER BY category ASC
`

	topSellersSQL = `
SELECT s.seller_id, s.city, s.state, COUNT(*) AS items
FROM order_items i
JOIN sellers s ON s.seller_id = i.seller_id
GROUP BY s.seller_id, s.city, s.state
ORDER BY items DESC, s.seller_id ASC
`

	topSellersByCategorySQL = `
SELECT s.seller_id, pc.product_category_eng AS category, COUNT(*) AS items
FROM order_items i
JOIN sellers s ON s.seller_id = i.seller_id
JOIN products p ON p.product_id = i.product_id
JOIN product_category pc ON pc.product_category_name = p.product_category_name
GROUP BY s.seller_id, pc.product_category_eng
ORDER BY items DESC, s.seller_id ASC, category ASC
`

	// Outer joins on purpose: never-ordered products stay, with a NULL
	// last_ordered that sorts before every real date.
	staleProductsSQL = `
SELECT
  p.product_id,
  COALESCE(pc.product_category_eng, '') AS category,
  MAX(o.purchase_time) AS last_ordered
FROM products p
LEFT JOIN product_category pc ON pc.product_category_name = p.product_category_name
LEFT JOIN order_items i ON i.product_id = p.product_id
LEFT JOIN orders o ON o.order_id = i.order_id
GROUP BY p.product_id, category
HAVING last_ordered IS NULL OR last_ordered < ?
ORDER BY category ASC, last_ordered IS NOT NULL, last_ordered ASC, p.product_id ASC
`
)
