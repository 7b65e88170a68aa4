package dbtest

var schema = []string{
	`CREATE TABLE admins (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE vendors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT NOT NULL UNIQUE,
		business_name TEXT NOT NULL,
		business_address TEXT,
		logo TEXT,
		commission_rate NUMERIC NOT NULL DEFAULT 10,
		status TEXT NOT NULL DEFAULT 'pending',
		fcm_token TEXT,
		phone_verified_at DATETIME,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT NOT NULL UNIQUE,
		profile_image TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		fcm_token TEXT,
		phone_verified_at DATETIME,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE delivery_partners (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT NOT NULL UNIQUE,
		vehicle_type TEXT NOT NULL,
		vehicle_number TEXT,
		license_number TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		is_online BOOLEAN NOT NULL DEFAULT 0,
		current_lat REAL,
		current_lng REAL,
		last_location_at DATETIME,
		rating NUMERIC NOT NULL DEFAULT 0,
		fcm_token TEXT,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE partner_verifications (
		id TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		admin_id TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE otp_codes (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		mobile TEXT NOT NULL,
		code TEXT,
		expires_at DATETIME NOT NULL,
		consumed_at DATETIME,
		pending_profile TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (role, mobile)
	)`,
	`CREATE TABLE categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT,
		image TEXT,
		parent_id TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		vendor_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		sku TEXT,
		description TEXT,
		price NUMERIC NOT NULL,
		discounted_price NUMERIC,
		stock_quantity INTEGER NOT NULL DEFAULT 0,
		min_order_quantity INTEGER NOT NULL DEFAULT 1,
		max_order_quantity INTEGER,
		images TEXT,
		attributes TEXT,
		is_featured BOOLEAN NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE cart_items (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		vendor_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price NUMERIC NOT NULL,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (customer_id, product_id, vendor_id)
	)`,
	`CREATE TABLE wishlist_items (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		created_at DATETIME,
		UNIQUE (customer_id, product_id)
	)`,
	`CREATE TABLE customer_addresses (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		address_type TEXT NOT NULL DEFAULT 'home',
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL,
		address_line1 TEXT NOT NULL,
		address_line2 TEXT,
		landmark TEXT,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		country TEXT NOT NULL,
		postal_code TEXT NOT NULL,
		lat REAL,
		lng REAL,
		is_default BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE customer_search_history (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		query TEXT NOT NULL,
		search_count INTEGER NOT NULL DEFAULT 1,
		last_searched_at DATETIME NOT NULL,
		created_at DATETIME,
		UNIQUE (customer_id, query)
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		customer_id TEXT NOT NULL,
		vendor_id TEXT NOT NULL,
		delivery_partner_id TEXT,
		address_id TEXT NOT NULL,
		delivery_address TEXT NOT NULL,
		subtotal NUMERIC NOT NULL,
		delivery_charge NUMERIC NOT NULL DEFAULT 0,
		discount_amount NUMERIC NOT NULL DEFAULT 0,
		tax_amount NUMERIC NOT NULL DEFAULT 0,
		final_amount NUMERIC NOT NULL,
		payment_method TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		order_status TEXT NOT NULL,
		customer_notes TEXT,
		cancellation_reason TEXT,
		stock_restored_at DATETIME,
		estimated_delivery_time DATETIME,
		actual_delivery_time DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id),
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price NUMERIC NOT NULL,
		total_price NUMERIC NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE order_status_history (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		status TEXT NOT NULL,
		changed_by TEXT NOT NULL,
		changed_by_id TEXT,
		notes TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE vendor_orders (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL UNIQUE,
		vendor_id TEXT NOT NULL,
		status TEXT NOT NULL,
		subtotal NUMERIC NOT NULL,
		commission_amount NUMERIC NOT NULL,
		net_amount NUMERIC NOT NULL,
		preparation_time INTEGER,
		vendor_notes TEXT,
		accepted_at DATETIME,
		prepared_at DATETIME,
		ready_at DATETIME,
		cancelled_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_reviews (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id),
		customer_id TEXT NOT NULL,
		rating INTEGER NOT NULL,
		comment TEXT,
		images TEXT,
		is_approved BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (order_id, product_id, customer_id)
	)`,
	`CREATE TABLE delivery_tasks (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		partner_id TEXT,
		status TEXT NOT NULL,
		pickup_address TEXT NOT NULL,
		delivery_address TEXT NOT NULL,
		notes TEXT,
		actual_distance NUMERIC,
		actual_time INTEGER,
		started_at DATETIME,
		completed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE delivery_locations (
		id TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		task_id TEXT,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		speed REAL,
		battery_level INTEGER,
		created_at DATETIME
	)`,
	`CREATE TABLE delivery_earnings (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL UNIQUE,
		partner_id TEXT NOT NULL,
		order_id TEXT NOT NULL,
		base_fare NUMERIC NOT NULL,
		distance_fare NUMERIC NOT NULL,
		time_fare NUMERIC NOT NULL,
		total_amount NUMERIC NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME
	)`,
	`CREATE TABLE vendor_earnings (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL UNIQUE,
		vendor_id TEXT NOT NULL,
		gross_amount NUMERIC NOT NULL,
		commission_amount NUMERIC NOT NULL,
		net_amount NUMERIC NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME
	)`,
	`CREATE TABLE support_tickets (
		id TEXT PRIMARY KEY,
		ticket_number TEXT NOT NULL UNIQUE,
		customer_id TEXT NOT NULL,
		order_id TEXT,
		subject TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'open',
		assigned_to TEXT,
		resolved_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE ticket_replies (
		id TEXT PRIMARY KEY,
		ticket_id TEXT NOT NULL,
		author_type TEXT NOT NULL,
		author_id TEXT NOT NULL,
		message TEXT NOT NULL,
		attachments TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		recipient_type TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		data TEXT,
		read_at DATETIME,
		created_at DATETIME
	)`,
	`CREATE TABLE outbox_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME,
		published_at DATETIME,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		next_attempt_at DATETIME
	)`,
	`CREATE TABLE outbox_dlq (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		error_reason TEXT NOT NULL,
		error_message TEXT,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		failed_at DATETIME
	)`,
}
