package store

const (
	insertOrReplaceList = `
		INSERT OR REPLACE INTO shopping_lists (
			id,
			name,
			owner_id,
			access,
			state,
			modified
		) VALUES ($1, $2, $3, $4, $5, $6);`

	getSingleList = `
		SELECT
			id,
			name,
			owner_id,
			access,
			state,
			modified
		FROM shopping_lists
		WHERE id = $1;`

	deleteListItems = `
		DELETE FROM shopping_list_items
		WHERE list_id = $1;`

	deleteList = `
		DELETE FROM shopping_lists
		WHERE id = $1;`

	insertOrReplaceItem = `
		INSERT OR REPLACE INTO shopping_list_items (
			id,
			list_id,
			description,
			tick,
			order_index,
			state,
			modified
		) VALUES ($1, $2, $3, $4, $5, $6, $7);`

	getSingleItem = `
		SELECT
			id,
			list_id,
			description,
			tick,
			order_index,
			state,
			modified
		FROM shopping_list_items
		WHERE id = $1;`

	deleteItem = `
		DELETE FROM shopping_list_items
		WHERE id = $1;`
)
