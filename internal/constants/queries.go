package constants

const (
	SearchEvents = `
	SELECT e.*, v.name AS venue_name, v.city AS venue_city
	FROM events e
	LEFT JOIN venues v ON v.id = e.venue_id
	WHERE ($1 = '' OR e.title ILIKE '%' || $1 || '%' OR e.description ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR e.category = $2)
	  AND e.start_time >= NOW()
	ORDER BY e.start_time ASC
	LIMIT $3 OFFSET $4
	`

	CountUsers = `
	SELECT COUNT(*) FROM users
	`

	CountEvents = `
	SELECT COUNT(*) FROM events
	`

	SumTicketsAndRevenue = `
	SELECT COALESCE(SUM(quantity), 0) AS tickets, COALESCE(SUM(total_price), 0) AS revenue
	FROM ticket_purchases
	`

	EventsByCategory = `
	SELECT category, COUNT(*) AS total
	FROM events
	GROUP BY category
	ORDER BY total DESC
	`

	TopOrganizers = `
	SELECT u.display_name AS organizer, COUNT(e.id) AS events,
	       COALESCE(SUM(e.tickets_sold), 0) AS tickets_sold
	FROM users u
	JOIN events e ON e.organizer_id = u.account_id
	GROUP BY u.display_name
	ORDER BY tickets_sold DESC
	LIMIT 10
	`
)
