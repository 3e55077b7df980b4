package nerdgraph

const searchMonitorsQuery = `query($query: String!) {
  actor {
    entitySearch(query: $query) {
      results {
        entities {
          ... on SyntheticMonitorEntityOutline {
            accountId
            guid
            name
            monitorType
            monitoredUrl
            period
            tags {
              key
              values
            }
          }
        }
      }
    }
  }
}`

const getScriptQuery = `query($accountId: Int!, $guid: EntityGuid!) {
  actor {
    account(id: $accountId) {
      synthetics {
        script(monitorGuid: $guid) {
          text
        }
      }
    }
  }
}`

// entitiesPath locates the monitor list inside the search response.
const entitiesPath = "actor.entitySearch.results.entities"
