package graphsync

var schemaCypher = []string{
	`CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.userId IS UNIQUE`,
	`CREATE CONSTRAINT property_id IF NOT EXISTS FOR (p:Property) REQUIRE p.propertyId IS UNIQUE`,
}

const upsertUserCypher = `
MERGE (u:User {userId: $userId})
SET u += $props
`

const upsertPropertyCypher = `
MERGE (p:Property {propertyId: $propertyId})
SET p += $props
WITH p
MERGE (o:User {userId: $ownerId})
MERGE (o)-[:OWNS]->(p)
`

const upsertBookingCypher = `
MERGE (g:User {userId: $guestId})
MERGE (p:Property {propertyId: $propertyId})
MERGE (g)-[b:BOOKED {bookingId: $bookingId}]->(p)
SET b.status = $status,
	b.checkIn = $checkIn,
	b.checkOut = $checkOut,
	b.totalPrice = $totalPrice
`

const upsertReviewCypher = `
MERGE (u:User {userId: $reviewerId})
MERGE (p:Property {propertyId: $propertyId})
MERGE (u)-[r:REVIEWED {reviewId: $reviewId}]->(p)
SET r.rating = $rating,
	r.verified = $verified
`

const countCypher = `
CALL { MATCH (u:User) RETURN count(u) AS users }
CALL { MATCH (p:Property) RETURN count(p) AS properties }
CALL { MATCH ()-[b:BOOKED]->() RETURN count(b) AS bookings }
CALL { MATCH ()-[r:REVIEWED]->() RETURN count(r) AS reviews }
RETURN users, properties, bookings, reviews
`
