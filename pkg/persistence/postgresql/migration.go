package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Campaigns as seen by the scheduling engine. Authoring owns
			-- the full record; only the columns the engine reads live here.
			CREATE TABLE campaigns (
				id VARCHAR(255) NOT NULL,
				scope VARCHAR(20) NOT NULL CHECK (scope IN ('global', 'company')),
				company_id VARCHAR(255),
				name VARCHAR(255) NOT NULL DEFAULT '',
				status VARCHAR(100) NOT NULL DEFAULT 'draft',
				starts_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				PRIMARY KEY (id)
			);

			CREATE INDEX idx_campaigns_scope_company ON campaigns(scope, company_id);

			-- One builder graph document per scope tier. A campaign-specific
			-- row wins over the company-wide row when both exist.
			CREATE TABLE campaign_builder_graphs (
				id UUID PRIMARY KEY,
				scope VARCHAR(20) NOT NULL CHECK (scope IN ('global', 'company')),
				company_id VARCHAR(255),
				campaign_id VARCHAR(255),
				graph JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE UNIQUE INDEX idx_builder_graphs_tier
				ON campaign_builder_graphs(scope, COALESCE(company_id, ''), COALESCE(campaign_id, ''));

			CREATE TABLE marketing_settings (
				company_id VARCHAR(255) PRIMARY KEY,
				schedule_launch BOOLEAN NOT NULL DEFAULT TRUE,
				easycron_api_key TEXT,
				easycron_timezone VARCHAR(100),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
		2: `
			CREATE TABLE marketing_campaign_schedules (
				id UUID PRIMARY KEY,
				company_id VARCHAR(255),
				campaign_id VARCHAR(255) NOT NULL,
				node_id VARCHAR(255) NOT NULL,
				node_key VARCHAR(255) NOT NULL,
				run_at TIMESTAMP WITH TIME ZONE NOT NULL,
				status VARCHAR(50) NOT NULL DEFAULT 'pending'
					CHECK (status IN ('pending', 'scheduled', 'running', 'failed', 'completed')),
				easycron_job_id VARCHAR(255),
				easycron_payload JSONB,
				last_run_at TIMESTAMP WITH TIME ZONE,
				error TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				UNIQUE (campaign_id, node_id, run_at)
			);

			CREATE INDEX idx_campaign_schedules_campaign ON marketing_campaign_schedules(campaign_id);
			CREATE INDEX idx_campaign_schedules_node ON marketing_campaign_schedules(campaign_id, node_id);
			CREATE INDEX idx_campaign_schedules_status ON marketing_campaign_schedules(status);
		`,
	}
}
