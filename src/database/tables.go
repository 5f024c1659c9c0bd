package database

import "newscorr/src/datamodels"

var DbTables = []interface{}{
	&datamodels.AnalysisRun{},
	&datamodels.CorrelationReport{},
	&datamodels.DailySentimentRecord{},
	&datamodels.PriceBarRecord{},
	&datamodels.Metric{},
}
