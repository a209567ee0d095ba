package postgresql

// migrations returns the schema migrations, keyed by version.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS cases (
				id UUID PRIMARY KEY,
				case_number TEXT NOT NULL UNIQUE,
				client_id UUID NOT NULL,
				service_slug TEXT NOT NULL,
				intake_status TEXT NOT NULL,
				form_data JSONB NOT NULL DEFAULT '{}'::jsonb,
				current_step INTEGER NOT NULL DEFAULT 0,
				correction_notes TEXT NOT NULL DEFAULT '',
				deadline_date TIMESTAMP WITH TIME ZONE,
				payment_due_date TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_cases_client ON cases (client_id);
			CREATE INDEX IF NOT EXISTS idx_cases_status ON cases (intake_status);

			CREATE TABLE IF NOT EXISTS documents (
				id UUID PRIMARY KEY,
				case_id UUID NOT NULL REFERENCES cases (id),
				client_id UUID,
				document_key TEXT NOT NULL,
				name TEXT NOT NULL,
				file_path TEXT NOT NULL DEFAULT '',
				file_type TEXT,
				file_size BIGINT,
				status TEXT NOT NULL DEFAULT 'uploaded',
				rejection_reason TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_documents_case ON documents (case_id);
			CREATE INDEX IF NOT EXISTS idx_documents_key ON documents (case_id, document_key);

			CREATE TABLE IF NOT EXISTS case_activity (
				id UUID PRIMARY KEY,
				case_id UUID NOT NULL REFERENCES cases (id),
				actor_id UUID,
				action TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
				visible_to_client BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_case_activity_case ON case_activity (case_id, created_at);
		`,
	}
}
