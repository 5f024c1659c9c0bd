package sentiment

var intensifiers = map[string]float64{
	"very":          1.3,
	"extremely":     1.5,
	"highly":        1.3,
	"really":        1.2,
	"incredibly":    1.5,
	"hugely":        1.4,
	"massively":     1.4,
	"sharply":       1.3,
	"significantly": 1.3,
	"slightly":      0.6,
	"somewhat":      0.7,
	"most":          1.2,
	"more":          1.1,
	"less":          0.7,
}

var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"nor":     true,
	"neither": true,
	"without": true,
	"cannot":  true,
}

var generalLexicon = map[string]LexiconEntry{
	"good":          {0.7, 0.6},
	"great":         {0.8, 0.75},
	"excellent":     {1.0, 1.0},
	"best":          {1.0, 0.3},
	"better":        {0.5, 0.5},
	"positive":      {0.23, 0.55},
	"strong":        {0.43, 0.73},
	"stronger":      {0.5, 0.6},
	"solid":         {0.4, 0.5},
	"optimistic":    {0.5, 0.7},
	"confident":     {0.5, 0.7},
	"impressive":    {0.8, 1.0},
	"success":       {0.6, 0.6},
	"successful":    {0.75, 0.95},
	"win":           {0.8, 0.4},
	"wins":          {0.8, 0.4},
	"top":           {0.5, 0.5},
	"new":           {0.14, 0.45},
	"high":          {0.16, 0.54},
	"higher":        {0.25, 0.5},
	"up":            {0.1, 0.2},
	"growth":        {0.3, 0.3},
	"growing":       {0.3, 0.4},
	"bad":           {-0.7, 0.67},
	"worse":         {-0.4, 0.6},
	"worst":         {-1.0, 1.0},
	"negative":      {-0.3, 0.4},
	"weak":          {-0.375, 0.625},
	"weaker":        {-0.4, 0.6},
	"poor":          {-0.4, 0.6},
	"terrible":      {-1.0, 1.0},
	"disappointing": {-0.6, 0.7},
	"concern":       {-0.2, 0.4},
	"concerns":      {-0.2, 0.4},
	"worried":       {-0.4, 0.6},
	"risk":          {-0.2, 0.4},
	"risky":         {-0.5, 0.7},
	"low":           {-0.1, 0.3},
	"lower":         {-0.2, 0.4},
	"down":          {-0.15, 0.29},
	"fail":          {-0.5, 0.5},
	"fails":         {-0.5, 0.5},
	"failure":       {-0.3, 0.3},
	"crisis":        {-0.5, 0.5},
	"uncertain":     {-0.2, 0.7},
	"uncertainty":   {-0.2, 0.6},
	"volatile":      {-0.2, 0.6},
}

// financeLexicon covers headline vocabulary the general lexicon scores as neutral.
var financeLexicon = map[string]LexiconEntry{
	"beat":          {0.4, 0.4},
	"beats":         {0.4, 0.4},
	"tops":          {0.4, 0.4},
	"upgrade":       {0.5, 0.4},
	"upgrades":      {0.5, 0.4},
	"upgraded":      {0.5, 0.4},
	"outperform":    {0.5, 0.5},
	"outperforms":   {0.5, 0.5},
	"overweight":    {0.3, 0.4},
	"buy":           {0.3, 0.3},
	"bullish":       {0.6, 0.7},
	"surge":         {0.5, 0.5},
	"surges":        {0.5, 0.5},
	"soar":          {0.6, 0.5},
	"soars":         {0.6, 0.5},
	"jump":          {0.4, 0.4},
	"jumps":         {0.4, 0.4},
	"rally":         {0.5, 0.5},
	"rallies":       {0.5, 0.5},
	"gain":          {0.3, 0.4},
	"gains":         {0.3, 0.4},
	"rise":          {0.3, 0.3},
	"rises":         {0.3, 0.3},
	"record":        {0.3, 0.3},
	"profit":        {0.3, 0.3},
	"profitable":    {0.4, 0.4},
	"raises":        {0.3, 0.3},
	"dividend":      {0.2, 0.2},
	"breakout":      {0.4, 0.5},
	"miss":          {-0.4, 0.4},
	"misses":        {-0.4, 0.4},
	"downgrade":     {-0.5, 0.4},
	"downgrades":    {-0.5, 0.4},
	"downgraded":    {-0.5, 0.4},
	"underperform":  {-0.5, 0.5},
	"underperforms": {-0.5, 0.5},
	"underweight":   {-0.3, 0.4},
	"sell":          {-0.3, 0.3},
	"bearish":       {-0.6, 0.7},
	"plunge":        {-0.6, 0.6},
	"plunges":       {-0.6, 0.6},
	"plummet":       {-0.7, 0.6},
	"plummets":      {-0.7, 0.6},
	"slump":         {-0.5, 0.5},
	"slumps":        {-0.5, 0.5},
	"tumble":        {-0.5, 0.5},
	"tumbles":       {-0.5, 0.5},
	"fall":          {-0.3, 0.3},
	"falls":         {-0.3, 0.3},
	"drop":          {-0.3, 0.3},
	"drops":         {-0.3, 0.3},
	"decline":       {-0.3, 0.3},
	"declines":      {-0.3, 0.3},
	"loss":          {-0.3, 0.4},
	"losses":        {-0.3, 0.4},
	"cut":           {-0.3, 0.3},
	"cuts":          {-0.3, 0.3},
	"layoffs":       {-0.4, 0.4},
	"lawsuit":       {-0.4, 0.4},
	"probe":         {-0.3, 0.4},
	"recall":        {-0.3, 0.3},
	"fraud":         {-0.8, 0.7},
	"bankruptcy":    {-0.8, 0.6},
	"default":       {-0.5, 0.4},
	"selloff":       {-0.5, 0.5},
}
